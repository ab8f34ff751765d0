package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/scan", h.scan)
}

type suggestionResponse struct {
	Type        ledger.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}

	files := make([]ledger.ReceiptFile, 0, len(headers))

	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			http.Error(w, "failed to read "+fh.Filename, http.StatusBadRequest)
			return
		}

		files = append(files, f)
	}

	suggestions, err := h.svc.ScanReceipts(r.Context(), files)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrMalformedReceipt):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, ledger.ErrRecognitionFailed):
			slog.Error("failed to scan receipt", "error", err)
			http.Error(w, "receipt recognition failed", http.StatusBadGateway)
		default:
			slog.Warn("receipt scan aborted", "error", err)
			http.Error(w, "scan aborted", http.StatusServiceUnavailable)
		}

		return
	}

	resp := make([]suggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		resp = append(resp, suggestionResponse{
			Type:        s.Type,
			Amount:      s.Amount,
			Category:    s.Category,
			Description: s.Description,
			Date:        s.Date.Format(time.DateOnly),
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func readFile(fh *multipart.FileHeader) (ledger.ReceiptFile, error) {
	file, err := fh.Open()
	if err != nil {
		return ledger.ReceiptFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ledger.ReceiptFile{}, err
	}

	return ledger.ReceiptFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
