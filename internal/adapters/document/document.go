// Package document turns uploaded résumé files into plain text.
//
// PDF, DOCX and plain text are recognized by content sniffing with the file
// extension as a tie-breaker. Output is NFKC-normalized so ligatures and
// compatibility spaces from PDF fonts compare like ordinary text.
package document

import (
	"bytes"
	"fmt"
	"html"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"golang.org/x/text/unicode/norm"
)

// Kind is a recognized document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Reader extracts text from documents.
type Reader struct {
	maxBytes int64
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxBytes rejects documents larger than n bytes.
func WithMaxBytes(n int64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxBytes = n
		}
	}
}

// NewReader returns a Reader. The default size limit is 5 MiB.
func NewReader(opts ...Option) *Reader {
	r := &Reader{maxBytes: 5 << 20}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Detect reports the kind of data named name.
func Detect(name string, data []byte) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return KindPDF, nil
	case bytes.HasPrefix(data, zipMagic) && ext == ".docx":
		return KindDOCX, nil
	case bytes.HasPrefix(data, zipMagic):
		return "", fmt.Errorf("%w: archive %q", ErrUnsupportedDocument, name)
	}
	ct := http.DetectContentType(data)
	if strings.HasPrefix(ct, "text/plain") && utf8.Valid(data) {
		return KindText, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedDocument, ct)
}

// Text returns the normalized text content of the document.
func (r *Reader) Text(name string, data []byte) (Kind, string, error) {
	if int64(len(data)) > r.maxBytes {
		return "", "", fmt.Errorf("%w: %d > %d bytes", ErrDocumentTooLarge, len(data), r.maxBytes)
	}
	kind, err := Detect(name, data)
	if err != nil {
		return "", "", err
	}
	var text string
	switch kind {
	case KindPDF:
		text, err = pdfText(data)
	case KindDOCX:
		text, err = docxText(data)
	default:
		text = string(data)
	}
	if err != nil {
		return kind, "", err
	}
	return kind, normalize(text), nil
}

func normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// pdfText reads rows top to bottom so headings stay on their own lines.
func pdfText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, p)
		}
	}()
	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, err)
	}
	var b strings.Builder
	for i := 1; i <= rd.NumPage(); i++ {
		page := rd.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			plain, perr := page.GetPlainText(nil)
			if perr != nil {
				continue
			}
			b.WriteString(plain)
			b.WriteByte('\n')
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

var (
	docxBreak = regexp.MustCompile(`</w:p>|<w:br/>|<w:br [^>]*/>`)
	docxTab   = regexp.MustCompile(`<w:tab/>`)
	xmlTag    = regexp.MustCompile(`<[^>]+>`)
)

// docxText flattens document.xml, one paragraph per line.
func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = docxBreak.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}
