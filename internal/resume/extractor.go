package resume

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, r io.Reader) (string, error)
}

// DocconvExtractor handles pdf, doc, docx, odt and rtf through docconv and
// reads .txt files directly.
type DocconvExtractor struct{}

func (DocconvExtractor) Extract(_ context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		b, err := io.ReadAll(io.LimitReader(r, maxDocumentBytes))
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", fmt.Errorf("text file is not valid UTF-8")
		}
		return CleanText(string(b)), nil
	case ".pdf", ".doc", ".docx", ".odt", ".rtf":
		res, err := docconv.Convert(r, docconv.MimeTypeByExtension(filename), false)
		if err != nil {
			return "", err
		}
		return CleanText(res.Body), nil
	}
	return "", fmt.Errorf("unsupported file type: %s", ext)
}
