package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"hireflow/resume-screener/internal/errs"
)

// TextExtractor is the extract-text collaborator boundary: file in,
// plain text out. Parsing semantics beyond extraction live upstream.
type TextExtractor interface {
	ExtractFile(filePath string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

func (e *textExtractor) ExtractFile(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", errs.NotFound("file does not exist: %s", filePath)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return e.extractPDF(filePath)
	case ".docx":
		return e.extractDocx(filePath)
	case ".txt":
		return e.extractTxt(filePath)
	default:
		return "", errs.Validation("unsupported resume file type: %s", filepath.Ext(filePath))
	}
}

func (e *textExtractor) extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return "", errs.Validation("no text content found in PDF")
	}
	return text, nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func (e *textExtractor) extractDocx(filePath string) (string, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document.xml body
	content := doc.Editable().GetContent()
	text := CleanText(xmlTagPattern.ReplaceAllString(content, " "))
	if text == "" {
		return "", errs.Validation("no text content found in DOCX")
	}
	return text, nil
}

func (e *textExtractor) extractTxt(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}

	text := CleanText(string(data))
	if text == "" {
		return "", errs.Validation("text file is empty")
	}
	return text, nil
}

// CleanText trims each line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
