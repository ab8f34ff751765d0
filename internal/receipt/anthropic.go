package receipt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

const (
	DefaultAnthropicModel = "claude-3-haiku-20240307"

	anthropicMaxTokens = 300
)

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Anthropic reads receipt images with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
	now    func() time.Time
}

// NewAnthropic creates a recognizer for the given API key. Extra request options
// are passed to the client (base URL, retries).
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	if model == "" {
		model = DefaultAnthropicModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
		now:    time.Now,
	}
}

func (a *Anthropic) Recognize(ctx context.Context, file ledger.ReceiptFile) (*ledger.Suggestion, error) {
	mediaType := mediaTypeOf(file)
	if !supportedImageTypes[mediaType] {
		return nil, fmt.Errorf("unsupported image type %q: %w", mediaType, ledger.ErrMalformedReceipt)
	}

	slog.Debug("sending receipt to Anthropic", "file", file.Name, "media_type", mediaType, "bytes", len(file.Data))

	response, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(file.Data)),
				anthropic.NewTextBlock(a.buildPrompt()),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calling Anthropic API: %w: %w", ledger.ErrRecognitionFailed, err)
	}

	var responseText string
	if len(response.Content) > 0 {
		responseText = response.Content[0].Text
	}

	if responseText == "" {
		return nil, fmt.Errorf("empty response from Anthropic API: %w", ledger.ErrRecognitionFailed)
	}

	suggestion, err := a.parseResponse(responseText)
	if err != nil {
		slog.Error("failed to parse Anthropic response", "error", err, "response", responseText)
		return nil, err
	}

	if suggestion.Description == "" {
		suggestion.Description = scanDescription(file.Name)
	}

	return suggestion, nil
}

func (a *Anthropic) buildPrompt() string {
	return fmt.Sprintf(`You are reading a purchase receipt.
Extract the total paid, the best matching category and a short description of the merchant.

Please respond with ONLY a JSON object in this exact format:
{
  "amount": "<total as a decimal number, no currency symbol>",
  "category": "<one of: %s>",
  "description": "<merchant name or short description>",
  "date": "<YYYY-MM-DD, or empty if not printed>"
}`, strings.Join(ledger.ExpenseCategories, ", "))
}

func (a *Anthropic) parseResponse(response string) (*ledger.Suggestion, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")

	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON found in response: %w", ledger.ErrMalformedReceipt)
	}

	var result struct {
		Amount      json.Number `json:"amount"`
		Category    string      `json:"category"`
		Description string      `json:"description"`
		Date        string      `json:"date"`
	}

	dec := json.NewDecoder(strings.NewReader(response[start : end+1]))
	dec.UseNumber()

	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing JSON response: %w: %w", ledger.ErrMalformedReceipt, err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(result.Amount.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", result.Amount, ledger.ErrMalformedReceipt)
	}

	if amount.IsNegative() {
		amount = amount.Abs()
	}

	category := result.Category
	if category == "" {
		category = fallbackCategory
	}

	date := ledger.DateOf(a.now())
	if result.Date != "" {
		parsed, err := time.Parse(time.DateOnly, result.Date)
		if err != nil {
			slog.Warn("ignoring unparsable receipt date", "date", result.Date, "error", err)
		} else {
			date = parsed
		}
	}

	return &ledger.Suggestion{
		Type:        ledger.TypeExpense,
		Amount:      amount,
		Category:    category,
		Description: result.Description,
		Date:        date,
	}, nil
}
