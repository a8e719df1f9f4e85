package services

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
)

// DocumentParser turns an uploaded resume into plain text.
type DocumentParser interface {
	ExtractText(file UploadFile) (string, error)
}

type documentParser struct{}

func NewDocumentParser() DocumentParser {
	return &documentParser{}
}

// ExtractText implements DocumentParser. The format is chosen by content
// type, falling back to the file extension.
func (p *documentParser) ExtractText(file UploadFile) (string, error) {
	var (
		text string
		err  error
	)

	switch documentFormat(file) {
	case "txt":
		text = string(file.Data)
	case "pdf":
		text, err = extractPDFText(file.Data)
	case "docx":
		text, err = extractDocxText(file.Data)
	default:
		return "", fmt.Errorf("unsupported file type: %s", file.Name)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text content found in %s", file.Name)
	}
	return text, nil
}

func documentFormat(file UploadFile) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0])) {
	case "text/plain":
		return "txt"
	case "application/pdf":
		return "pdf"
	case docxMIME:
		return "docx"
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".txt":
		return "txt"
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	}
	return ""
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Log error but continue with other pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := docxParagraphEnd.ReplaceAllString(doc.Editable().GetContent(), "\n")
	return html.UnescapeString(xmlTagPattern.ReplaceAllString(content, "")), nil
}

// Excerpt trims text to at most limit runes.
func Excerpt(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// Helper function to clean and normalize text
func CleanText(text string) string {
	// Remove excessive whitespace
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
