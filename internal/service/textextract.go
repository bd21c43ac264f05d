package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoReadableText is returned when a document parses but contains no text,
// e.g. a scanned PDF made of images only.
var ErrNoReadableText = fmt.Errorf("no readable text found in document")

// ExtractText sniffs the real file type from its bytes and extracts plain
// text. Supported: PDF, DOCX and plain text. The declared mime type and
// extension are only used as a tiebreaker, since browsers lie about both.
func ExtractText(fileName, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file %q", fileName)
	}

	if isPDF(data) {
		return extractPDF(data)
	}
	if isZip(data) {
		return extractDOCX(data)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md" {
		return strings.TrimSpace(string(data)), nil
	}

	if mt == "application/pdf" || ext == ".pdf" {
		return "", fmt.Errorf("file %q claims PDF but has no %%PDF header", fileName)
	}
	return "", fmt.Errorf("unsupported file type: name=%s mime=%s", fileName, mt)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// isProbablyText checks that a sample of the file is printable and NUL-free.
func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return len(sample) > 0 && good*100/len(sample) >= 90
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep whatever the rest yields.
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}

	out := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if out == "" {
		return "", ErrNoReadableText
	}
	return out, nil
}

var docxTagRe = regexp.MustCompile(`<[^>]+>`)

// extractDOCX pulls paragraph text out of word/document.xml inside the
// OpenXML container.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx container: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		raw, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		return docxXMLToText(raw)
	}
	return "", fmt.Errorf("not a docx file: word/document.xml missing")
}

func docxXMLToText(raw []byte) (string, error) {
	// Paragraph ends become newlines so the text keeps its structure.
	s := strings.ReplaceAll(string(raw), "</w:p>", "</w:p>\n")
	s = docxTagRe.ReplaceAllString(s, "")

	var buf strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(unescapeXML(line))
		if line != "" {
			buf.WriteString(line)
			buf.WriteString("\n\n")
		}
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", ErrNoReadableText
	}
	return out, nil
}

func unescapeXML(s string) string {
	r := strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
	return r.Replace(s)
}
