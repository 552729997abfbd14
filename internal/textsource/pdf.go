package textsource

import (
	"context"
	"fmt"

	"github.com/dslipak/pdf"
)

// PDF reads the first page of a PDF document.
type PDF struct{}

// Lines implements Source.
func (PDF) Lines(ctx context.Context, path string) (lines []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	if r.NumPage() < 1 {
		return nil, nil
	}

	page := r.Page(1)
	if page.V.IsNull() {
		return nil, nil
	}

	// The parser panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			lines = nil
			err = fmt.Errorf("failed to extract text from %s: %v", path, rec)
		}
	}()

	text, err := page.GetPlainText(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}
	return SplitLines(text), nil
}
