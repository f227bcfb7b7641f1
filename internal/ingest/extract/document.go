package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractDocument reads a .docx, .doc, .odt or .rtf file and returns the
// content as a single block of text.
func extractDocument(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract document content: %w", err)
	}
	return text, nil
}
