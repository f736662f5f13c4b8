// Package extract turns uploaded file bytes into plain text. PDF parsing
// sits behind the Extractor interface so the ingestion pipeline can be
// tested without real PDF fixtures.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	appErr "github.com/docforge/docforge/internal/pkg/errors"
)

type Extractor interface {
	// Extract returns the plain text of the file and its detected type
	// ("pdf" or "text"). A malformed PDF fails with ErrExtraction.
	Extract(ctx context.Context, filename string, data []byte) (text string, fileType string, err error)
}

type fileExtractor struct{}

func New() Extractor {
	return &fileExtractor{}
}

func IsPDF(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

func (e *fileExtractor) Extract(ctx context.Context, filename string, data []byte) (string, string, error) {
	if IsPDF(filename) {
		text, err := extractPDF(data)
		if err != nil {
			return "", "pdf", fmt.Errorf("%w: %v", appErr.ErrExtraction, err)
		}
		return text, "pdf", nil
	}
	return decodeText(data), "text", nil
}

// extractPDF concatenates per-page text with page-boundary markers so chunk
// text keeps track of where it came from.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNum, err)
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n%s\n\n", pageNum, pageText)
	}
	return sb.String(), nil
}

// decodeText prefers UTF-8 and falls back to a permissive single-byte
// decoding, so arbitrary bytes never fail extraction.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
