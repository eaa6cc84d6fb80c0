package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UploadDataset is the parsed two-part bulk upload payload: the first element
// of the raw array maps product names to proposed base prices, every
// remaining element is an individual box row.
type UploadDataset struct {
	Prices map[string]decimal.Decimal
	Rows   []json.RawMessage
}

// BoxRow is one validated box record from an upload.
type BoxRow struct {
	ProductName string          `json:"productName"`
	Kg          decimal.Decimal `json:"kg"`
	IsFrozen    bool            `json:"isFrozen"`
	EntryDate   *string         `json:"entryDate,omitempty"`
}

// UploadProduct describes one price-table entry in an upload result.
type UploadProduct struct {
	Name          string           `json:"name"`
	BasePrice     decimal.Decimal  `json:"basePrice"`
	PreviousPrice *decimal.Decimal `json:"previousPrice,omitempty"`
	BoxesLoaded   int              `json:"boxesLoaded"`
}

// ProductSummary is the per-product before/after line of an upload result.
type ProductSummary struct {
	Name          string           `json:"name"`
	PreviousPrice *decimal.Decimal `json:"previousPrice"`
	NewPrice      decimal.Decimal  `json:"newPrice"`
	BoxesLoaded   int              `json:"boxesLoaded"`
}

// UploadResult is the shared accounting structure returned by both Preview
// and Commit, computed identically in both phases.
type UploadResult struct {
	ProductsUpdated int              `json:"productsUpdated"`
	ProductsCreated int              `json:"productsCreated"`
	BoxesCreated    int              `json:"boxesCreated"`
	Errors          []string         `json:"errors"`
	Warnings        []string         `json:"warnings"`
	Products        []UploadProduct  `json:"products"`
	Boxes           []BoxRow         `json:"boxes"`
	TotalProducts   int              `json:"totalProducts"`
	TotalBoxes      int              `json:"totalBoxes"`
	ProductSummary  []ProductSummary `json:"productSummary"`
}

func newUploadResult(totalProducts, totalBoxes int) *UploadResult {
	return &UploadResult{
		Errors:         []string{},
		Warnings:       []string{},
		Products:       []UploadProduct{},
		Boxes:          []BoxRow{},
		TotalProducts:  totalProducts,
		TotalBoxes:     totalBoxes,
		ProductSummary: []ProductSummary{},
	}
}

// ParseUploadDataset validates the top-level shape of an upload payload.
// The error message is surfaced verbatim to the caller as HTTP 400.
func ParseUploadDataset(data []json.RawMessage) (*UploadDataset, error) {
	if len(data) == 0 {
		return nil, NewValidationError("se requiere un array con datos de precios y cajas")
	}

	var prices map[string]decimal.Decimal
	if err := json.Unmarshal(data[0], &prices); err != nil {
		return nil, NewValidationError("el primer elemento debe ser un objeto de precios por producto")
	}

	return &UploadDataset{Prices: prices, Rows: data[1:]}, nil
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeName is the canonical product matching key: trimmed, lowercased,
// internal whitespace collapsed. Preview and Commit both match through it.
func NormalizeName(name string) string {
	return whitespaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
}

// countBoxesByProduct builds the per-product box frequency table, keyed by
// normalized name. A row counts if and only if its productName is non-empty,
// regardless of whether the rest of the row later validates.
func countBoxesByProduct(rows []json.RawMessage) map[string]int {
	counts := make(map[string]int)
	for _, raw := range rows {
		var partial struct {
			ProductName string `json:"productName"`
		}
		if err := json.Unmarshal(raw, &partial); err != nil {
			continue
		}
		if strings.TrimSpace(partial.ProductName) == "" {
			continue
		}
		counts[NormalizeName(partial.ProductName)]++
	}
	return counts
}

// sortedNames returns the price-table keys in deterministic order.
func sortedNames(prices map[string]decimal.Decimal) []string {
	names := make([]string, 0, len(prices))
	for name := range prices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseBoxRow validates a single raw box row: productName must be non-empty,
// kg numeric, isFrozen boolean. The returned error carries the offending row
// serialized for diagnostics.
func parseBoxRow(raw json.RawMessage) (*BoxRow, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("caja inválida: %s", compactJSON(raw))
	}

	var row BoxRow
	if err := json.Unmarshal(fields["productName"], &row.ProductName); err != nil || strings.TrimSpace(row.ProductName) == "" {
		return nil, fmt.Errorf("caja inválida: %s", compactJSON(raw))
	}

	var kg float64
	if err := json.Unmarshal(fields["kg"], &kg); err != nil {
		return nil, fmt.Errorf("caja inválida: %s", compactJSON(raw))
	}
	row.Kg = decimal.NewFromFloat(kg)

	if err := json.Unmarshal(fields["isFrozen"], &row.IsFrozen); err != nil {
		return nil, fmt.Errorf("caja inválida: %s", compactJSON(raw))
	}

	if rawDate, ok := fields["entryDate"]; ok {
		var date string
		if err := json.Unmarshal(rawDate, &date); err == nil && date != "" {
			row.EntryDate = &date
		}
	}

	return &row, nil
}

// parseEntryDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseEntryDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", *s); err == nil {
		return &t
	}
	return nil
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
