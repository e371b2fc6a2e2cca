// Package resume turns a candidate's uploaded document or resume link into
// plain text. Resolution never fails: every error becomes descriptive text so
// question generation always has an input.
package resume

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/storage"
)

const (
	NoResumeText = "No resume provided. Questions generated based on Job Description only."

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxDocumentBytes = 20 << 20
	maxFetchBytes    = 5 << 20
)

var sheetsUserSegment = regexp.MustCompile(`/u/\d+/`)

type Resolver struct {
	store     storage.FileStore
	extractor TextExtractor
	client    *http.Client
}

// NewResolver builds a resolver whose URL fetch is bounded by timeout.
func NewResolver(store storage.FileStore, extractor TextExtractor, timeout time.Duration) *Resolver {
	if extractor == nil {
		extractor = DocconvExtractor{}
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{
		store:     store,
		extractor: extractor,
		client:    &http.Client{Timeout: timeout},
	}
}

// Resolve returns the best available resume text for c. An uploaded file
// wins over a URL. The result is always valid UTF-8 without NUL bytes.
func (r *Resolver) Resolve(ctx context.Context, c *domain.Candidate) string {
	switch {
	case c.HasResumeFile():
		return CleanText(r.fromFile(ctx, c))
	case c.HasResumeURL():
		return CleanText(r.fromURL(ctx, *c.ResumeURL))
	}
	return NoResumeText
}

// CleanText replaces invalid UTF-8 sequences with U+FFFD and drops NUL bytes,
// neither of which a Postgres TEXT column accepts.
func CleanText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.ReplaceAll(s, "\x00", "")
}

func (r *Resolver) fromFile(ctx context.Context, c *domain.Candidate) string {
	name := *c.ResumeFileKey
	if c.ResumeFileName != nil && *c.ResumeFileName != "" {
		name = *c.ResumeFileName
	}

	rc, err := r.store.Open(ctx, *c.ResumeFileKey)
	if err != nil {
		return fmt.Sprintf("Error parsing uploaded resume (%s): %v", name, err)
	}
	defer rc.Close()

	text, err := r.extractor.Extract(ctx, name, io.LimitReader(rc, maxDocumentBytes))
	if err != nil {
		return fmt.Sprintf("Error parsing uploaded resume (%s): %v", name, err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Sprintf("Warning: resume file uploaded (%s) but no text could be extracted.", name)
	}
	return text
}

// NormalizeURL rewrites Google Sheets "publish to web" HTML links into their
// CSV export form.
func NormalizeURL(raw string) string {
	if strings.Contains(raw, "docs.google.com/spreadsheets") && strings.Contains(raw, "pubhtml") {
		u := sheetsUserSegment.ReplaceAllString(raw, "/")
		return strings.Replace(u, "/pubhtml", "/pub?output=csv", 1)
	}
	return raw
}

func (r *Resolver) fromURL(ctx context.Context, original string) string {
	prefix := fmt.Sprintf("Resume Source: External Link (%s)\n\n", original)
	target := NormalizeURL(original)
	if target != original {
		logger.Log.Info("Normalized Google Sheets URL", "url", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return prefix + fmt.Sprintf("[ERROR]: Failed to fetch/parse URL content: %v", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return prefix + fmt.Sprintf("[ERROR]: Failed to fetch/parse URL content: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn("Resume URL fetch failed", "status", resp.StatusCode)
		return prefix + fmt.Sprintf("[ERROR]: Could not fetch content (Status: %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return prefix + fmt.Sprintf("[ERROR]: Failed to fetch/parse URL content: %v", err)
	}

	contentType := resp.Header.Get("Content-Type")
	var text string
	switch doc := documentName(contentType, target); {
	case doc != "":
		text, err = r.extractor.Extract(ctx, doc, bytes.NewReader(body))
	case isCSV(contentType, target):
		text, err = csvText(body)
	default:
		text, err = htmlText(body)
	}
	if err != nil {
		return prefix + fmt.Sprintf("[ERROR]: Failed to fetch/parse URL content: %v", err)
	}

	logger.Log.Info("Fetched resume from URL", "chars", len(text))
	return prefix + "--- FETCHED CONTENT ---\n" + text
}

// documentName returns a filename carrying the document extension when the
// response is a resume document rather than a page or sheet, or "".
func documentName(contentType, url string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "application/pdf":
		return "resume.pdf"
	case "application/msword":
		return "resume.doc"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "resume.docx"
	case "application/vnd.oasis.opendocument.text":
		return "resume.odt"
	case "application/rtf", "text/rtf":
		return "resume.rtf"
	}
	switch ext := strings.ToLower(path.Ext(strings.SplitN(url, "?", 2)[0])); ext {
	case ".pdf", ".doc", ".docx", ".odt", ".rtf":
		return "resume" + ext
	}
	return ""
}

func isCSV(contentType, url string) bool {
	return strings.Contains(contentType, "text/csv") ||
		strings.HasSuffix(url, "csv") ||
		strings.Contains(url, "output=csv")
}

// csvText joins cells with ", " and rows with newlines, dropping rows whose
// cells are all empty.
func csvText(body []byte) (string, error) {
	rd := csv.NewReader(bytes.NewReader(body))
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true
	records, err := rd.ReadAll()
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(records))
	for _, row := range records {
		if anyNonEmpty(row) {
			lines = append(lines, strings.Join(row, ", "))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// htmlText combines the page description with any table rows; when both are
// empty it falls back to the whole page text.
func htmlText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	meta := doc.Find(`meta[property="og:description"]`).First()
	if meta.Length() == 0 {
		meta = doc.Find(`meta[name="description"]`).First()
	}
	metaContent, _ := meta.Attr("content")

	var rows []string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cols []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cols = append(cols, strings.TrimSpace(cell.Text()))
		})
		if anyNonEmpty(cols) {
			rows = append(rows, strings.Join(cols, " | "))
		}
	})

	text := strings.TrimSpace(metaContent + "\n\n" + strings.Join(rows, "\n"))
	if text == "" {
		doc.Find("script, style, noscript").Remove()
		text = strings.Join(strings.Fields(doc.Text()), " ")
	}
	return text, nil
}

func anyNonEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
