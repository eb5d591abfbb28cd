package parser

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/Shift4funding/Helios-Engine-sub007/internal/domain"
)

// extractPDFText returns the text content of each page. The pdf library
// panics on some malformed documents, so extraction is wrapped in a
// recover and surfaced as CorruptDocument. A structurally valid PDF with
// no usable text layer (a scan without OCR) is NoTextContent.
func extractPDFText(data []byte) ([]string, error) {
	pages, err := extractWithLibrary(data)
	if err != nil {
		return nil, domain.NewParseError(domain.ParseCorruptDocument, nil, err)
	}
	if !isReadableText(pages) {
		return nil, domain.NewParseError(domain.ParseNoTextContent, nil, nil)
	}
	return pages, nil
}

func extractWithLibrary(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	r, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return nil, openErr
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages, nil
}

// isReadableText checks the extracted pages contain enough plausibly
// readable text to be a statement text layer rather than font garbage.
func isReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"$£€%&@#*+=`, r) {
				readable++
			}
		}
	}
	if total <= 50 {
		return false
	}
	return float64(readable)/float64(total) > 0.6
}
