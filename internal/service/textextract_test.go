package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func makeDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractText_PlainText(t *testing.T) {
	data := []byte("Le cours porte sur la photosynthèse.\nChapitre 1.\n")

	text, err := ExtractText("cours.txt", "text/plain", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "photosynthèse") {
		t.Fatalf("unexpected text: %q", text)
	}
	if strings.HasSuffix(text, "\n") {
		t.Fatalf("text not trimmed: %q", text)
	}
}

func TestExtractText_SniffsTextDespiteWrongMime(t *testing.T) {
	data := []byte("Contenu du cours en texte brut.")

	text, err := ExtractText("cours.bin", "application/octet-stream", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Contenu du cours en texte brut." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractText_Docx(t *testing.T) {
	doc := `<?xml version="1.0"?><w:document><w:body>` +
		`<w:p><w:r><w:t>Premier paragraphe du cours.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Deuxi&#232;me paragraphe &amp; suite.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := makeDocx(t, doc)

	text, err := ExtractText("cours.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Premier paragraphe du cours.") {
		t.Fatalf("missing first paragraph: %q", text)
	}
	if !strings.Contains(text, "& suite") {
		t.Fatalf("entities not unescaped: %q", text)
	}
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(paragraphs), text)
	}
}

func TestExtractText_DocxWithoutDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("other.xml")
	_, _ = w.Write([]byte("<x/>"))
	_ = zw.Close()

	_, err := ExtractText("cours.docx", "", buf.Bytes())
	if err == nil {
		t.Fatalf("expected error for zip without document.xml")
	}
}

func TestExtractText_EmptyDocxYieldsNoReadableText(t *testing.T) {
	data := makeDocx(t, `<w:document><w:body><w:p></w:p></w:body></w:document>`)

	_, err := ExtractText("vide.docx", "", data)
	if !errors.Is(err, ErrNoReadableText) {
		t.Fatalf("expected ErrNoReadableText, got %v", err)
	}
}

func TestExtractText_RejectsBinaryGarbage(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0xFF, 0xFE, 0x00, 0x10}

	_, err := ExtractText("mystere.dat", "application/octet-stream", data)
	if err == nil {
		t.Fatalf("expected error for binary garbage")
	}
}

func TestExtractText_EmptyFile(t *testing.T) {
	if _, err := ExtractText("vide.txt", "text/plain", nil); err == nil {
		t.Fatalf("expected error for empty file")
	}
}

func TestExtractText_FakePDFHeaderRequired(t *testing.T) {
	_, err := ExtractText("cours.pdf", "application/pdf", []byte{0x00, 0x01, 0x02, 0x03, 0x04})
	if err == nil {
		t.Fatalf("expected error for pdf without header")
	}
}
