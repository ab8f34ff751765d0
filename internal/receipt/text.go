package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wealth/internal/encoding"
	"github.com/MrJamesThe3rd/wealth/internal/ledger"
)

var (
	amountPattern  = regexp.MustCompile(`\d[\d.,]*`)
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	eurDatePattern = regexp.MustCompile(`\b(\d{2})[-/.](\d{2})[-/.](\d{4})\b`)
)

var totalLabels = []string{"AMOUNT DUE", "TOTAL"}

// categoryKeywords maps lower-case merchant keywords to expense categories.
// The first match in slice order wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"restaurant", "Food & Dining"},
	{"cafe", "Food & Dining"},
	{"café", "Food & Dining"},
	{"coffee", "Food & Dining"},
	{"bakery", "Food & Dining"},
	{"padaria", "Food & Dining"},
	{"market", "Food & Dining"},
	{"mercado", "Food & Dining"},
	{"grocery", "Food & Dining"},
	{"supermarket", "Food & Dining"},
	{"fuel", "Transportation"},
	{"gas", "Transportation"},
	{"petrol", "Transportation"},
	{"taxi", "Transportation"},
	{"uber", "Transportation"},
	{"parking", "Transportation"},
	{"pharmacy", "Healthcare"},
	{"farmacia", "Healthcare"},
	{"clinic", "Healthcare"},
	{"cinema", "Entertainment"},
	{"theater", "Entertainment"},
	{"hotel", "Travel"},
	{"airline", "Travel"},
	{"book", "Education"},
	{"electric", "Bills & Utilities"},
	{"water", "Bills & Utilities"},
	{"telecom", "Bills & Utilities"},
	{"store", "Shopping"},
	{"shop", "Shopping"},
}

const fallbackCategory = "Other Expense"

// Text reads plain-text receipts in any common encoding.
type Text struct {
	now func() time.Time
}

func NewText(now func() time.Time) *Text {
	if now == nil {
		now = time.Now
	}

	return &Text{now: now}
}

// Recognize looks for the largest amount on a TOTAL or AMOUNT DUE line. The first
// non-empty line names the merchant; a date on the receipt overrides today.
func (t *Text) Recognize(ctx context.Context, file ledger.ReceiptFile) (*ledger.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, charset, err := encoding.DecodeBytes(file.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w: %w", file.Name, ledger.ErrMalformedReceipt, err)
	}

	slog.Debug("decoded text receipt", "file", file.Name, "charset", charset)

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	total, ok := findTotal(lines)
	if !ok {
		return nil, fmt.Errorf("no total line in %q: %w", file.Name, ledger.ErrMalformedReceipt)
	}

	merchant := firstLine(lines)

	description := scanDescription(file.Name)
	if merchant != "" {
		description = merchant
	}

	date, ok := findDate(content)
	if !ok {
		date = ledger.DateOf(t.now())
	}

	return &ledger.Suggestion{
		Type:        ledger.TypeExpense,
		Amount:      total,
		Category:    categorize(merchant),
		Description: description,
		Date:        date,
	}, nil
}

func findTotal(lines []string) (decimal.Decimal, bool) {
	var (
		best  decimal.Decimal
		found bool
	)

	for _, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, "SUBTOTAL") || !hasTotalLabel(upper) {
			continue
		}

		for _, token := range amountPattern.FindAllString(line, -1) {
			amount, err := parseAmount(token)
			if err != nil {
				continue
			}

			if !found || amount.GreaterThan(best) {
				best = amount
				found = true
			}
		}
	}

	return best, found
}

func hasTotalLabel(upper string) bool {
	for _, label := range totalLabels {
		if strings.Contains(upper, label) {
			return true
		}
	}

	return false
}

// parseAmount accepts both 1,234.56 and 1.234,56. The right-most separator is
// the decimal point when two digits or fewer follow it.
func parseAmount(token string) (decimal.Decimal, error) {
	token = strings.TrimRight(token, ".,")

	sep := strings.LastIndexAny(token, ".,")
	if sep >= 0 && len(token)-sep-1 <= 2 {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(token[:sep])
		return decimal.NewFromString(intPart + "." + token[sep+1:])
	}

	return decimal.NewFromString(strings.NewReplacer(".", "", ",", "").Replace(token))
}

func findDate(content string) (time.Time, bool) {
	if m := isoDatePattern.FindStringSubmatch(content); m != nil {
		if d, err := time.Parse("2006-01-02", m[0]); err == nil {
			return d, true
		}
	}

	if m := eurDatePattern.FindStringSubmatch(content); m != nil {
		if d, err := time.Parse("02-01-2006", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			return d, true
		}
	}

	return time.Time{}, false
}

func firstLine(lines []string) string {
	for _, line := range lines {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}

	return ""
}

func categorize(merchant string) string {
	lower := strings.ToLower(merchant)

	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.category
		}
	}

	return fallbackCategory
}
