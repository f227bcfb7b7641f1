package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/docuchat/RagAPI/pkg/logger_i"
)

var pdfLogger = logger_i.NewLogger("pdf extract")

// extractPDF pulls text page by page. A corrupt page is logged and skipped;
// a single bad page must not abort the rest of the document.
func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		pdfLogger.Error("failed opening of pdf file", "path", path)
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := f.NumPage()
	pdfLogger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			pdfLogger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		sb.WriteString(fmt.Sprintf("\n--- Page %d ---\n", i))
		sb.WriteString(content)
	}
	return strings.TrimSpace(sb.String()), nil
}

// protectExtract runs the page text extraction in its own goroutine so that a
// page that hangs the parser doesn't stall the whole ingestion worker.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		pdfLogger.Error("pageExtract", "timeout", true)
		return "", errors.New("timeout")
	}
}
