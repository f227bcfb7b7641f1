package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrDecodingFailure     = errors.New("could not decode file with any supported encoding")
	ErrEmptyContent        = errors.New("no text content extracted from file")
)

// Extractor converts a file on disk into plain text.
type Extractor func(path string) (string, error)

// Registry maps filename extensions to extraction capabilities. The set is
// closed at construction: an unregistered extension is an explicit
// ErrUnsupportedFileType, never a silent lookup miss.
type Registry struct {
	byExt map[string]Extractor
}

func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(".pdf", extractPDF)
	r.Register(".docx", extractDocument)
	r.Register(".doc", extractDocument)
	r.Register(".odt", extractDocument)
	r.Register(".rtf", extractDocument)
	r.Register(".txt", extractPlainText)
	r.Register(".md", extractPlainText)
	r.Register(".csv", extractCSV)
	r.Register(".xlsx", extractExcel)
	r.Register(".xls", extractExcel)
	return r
}

func (r *Registry) Register(ext string, fn Extractor) {
	r.byExt[strings.ToLower(ext)] = fn
}

func (r *Registry) Supported(filename string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extract dispatches on the declared filename's extension, not the temp
// path, since uploads land under generated temp names.
func (r *Registry) Extract(path string, declaredFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(declaredFilename))
	fn, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	text, err := fn(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}
