// Package textsource turns payslip documents into the ordered plain-text
// lines of their first page.
package textsource

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for documents no source can read.
var ErrUnsupported = errors.New("unsupported document type")

// Source supplies the text lines of a document. A document without
// extractable text yields no lines and no error.
type Source interface {
	Lines(ctx context.Context, path string) ([]string, error)
}

// Mux dispatches on the lower-cased file extension.
type Mux struct {
	sources map[string]Source
}

// NewMux returns a Mux serving .pdf and .txt documents.
func NewMux() *Mux {
	return &Mux{
		sources: map[string]Source{
			".pdf": PDF{},
			".txt": Text{},
		},
	}
}

// Register adds or replaces the source for an extension (".ext").
func (m *Mux) Register(ext string, src Source) {
	m.sources[strings.ToLower(ext)] = src
}

// Lines implements Source.
func (m *Mux) Lines(ctx context.Context, path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	src, ok := m.sources[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupported, ext)
	}
	return src.Lines(ctx, path)
}

// Text reads plain-text documents. The whole file counts as the first page
// up to the first form feed.
type Text struct{}

// Lines implements Source.
func (Text) Lines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if i := bytes.IndexByte(data, '\f'); i >= 0 {
		data = data[:i]
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text into lines, dropping carriage returns and a
// trailing empty line.
func SplitLines(text string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines
}
