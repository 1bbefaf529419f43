package corpus

import (
	"context"
	"time"
)

// Record is a single historical inquiry/response pair. Records are immutable
// once loaded; the matching engine only reads them.
type Record struct {
	ID           string    `json:"id"`
	InquiryText  string    `json:"inquiry_text"`
	ResponseText string    `json:"response_text"`
	Embedding    []float32 `json:"embedding,omitempty"`
	LineNumbers  []int     `json:"line_numbers,omitempty"`
	CreatedDate  time.Time `json:"created_date"`
	IsOfficial   bool      `json:"is_official"`
}

// Provider exposes the historical corpus as a read-only snapshot. The corpus
// is refreshed out-of-band (periodic full reload or file watch); a caller
// treats the returned slice as immutable for the duration of a request.
type Provider interface {
	ListRecords(ctx context.Context) ([]Record, error)
}
