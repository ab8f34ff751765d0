package receipt

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

// Router dispatches a receipt to a recognizer by media type. Text and Image are
// optional; anything they do not take goes to Fallback.
type Router struct {
	Text     ledger.Recognizer
	Image    ledger.Recognizer
	Fallback ledger.Recognizer
}

func (r *Router) Recognize(ctx context.Context, file ledger.ReceiptFile) (*ledger.Suggestion, error) {
	mediaType := mediaTypeOf(file)

	next := r.Fallback

	switch {
	case strings.HasPrefix(mediaType, "text/") && r.Text != nil:
		next = r.Text
	case strings.HasPrefix(mediaType, "image/") && r.Image != nil:
		next = r.Image
	}

	if next == nil {
		return nil, fmt.Errorf("no recognizer for %q: %w", mediaType, ledger.ErrRecognitionFailed)
	}

	return next.Recognize(ctx, file)
}

// mediaTypeOf resolves the media type from the declared content type, then the
// file extension, then the content itself.
func mediaTypeOf(file ledger.ReceiptFile) string {
	for _, candidate := range []string{
		file.ContentType,
		mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Name))),
	} {
		if candidate == "" || candidate == "application/octet-stream" {
			continue
		}

		if mediaType, _, err := mime.ParseMediaType(candidate); err == nil {
			return mediaType
		}
	}

	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(file.Data))

	return mediaType
}
