package resume

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/storage"
)

func strPtr(s string) *string { return &s }

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(context.Context, string, io.Reader) (string, error) {
	return s.text, s.err
}

func newTestResolver(t *testing.T, ex TextExtractor) (*Resolver, storage.FileStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewResolver(store, ex, 2*time.Second), store
}

func TestResolveNoResume(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	assert.Equal(t, NoResumeText, r.Resolve(context.Background(), &domain.Candidate{}))
}

func TestResolveTextFile(t *testing.T) {
	r, store := newTestResolver(t, nil)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "resumes/a.txt", strings.NewReader("Go developer"), 12, "text/plain"))

	c := &domain.Candidate{ResumeFileKey: strPtr("resumes/a.txt"), ResumeFileName: strPtr("cv.txt")}
	assert.Equal(t, "Go developer", r.Resolve(ctx, c))
}

func TestResolveFileWinsOverURL(t *testing.T) {
	r, store := newTestResolver(t, stubExtractor{text: "from file"})
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "resumes/b.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))

	c := &domain.Candidate{
		ResumeFileKey: strPtr("resumes/b.pdf"),
		ResumeURL:     strPtr("http://127.0.0.1:1/unreachable"),
	}
	assert.Equal(t, "from file", r.Resolve(ctx, c))
}

func TestResolveFileEmptyAndError(t *testing.T) {
	ctx := context.Background()
	c := &domain.Candidate{ResumeFileKey: strPtr("resumes/c.pdf"), ResumeFileName: strPtr("cv.pdf")}

	r, store := newTestResolver(t, stubExtractor{text: "  \n"})
	require.NoError(t, store.Put(ctx, "resumes/c.pdf", strings.NewReader("%PDF"), 4, ""))
	assert.Equal(t, "Warning: resume file uploaded (cv.pdf) but no text could be extracted.", r.Resolve(ctx, c))

	r, store = newTestResolver(t, stubExtractor{err: errors.New("corrupt xref")})
	require.NoError(t, store.Put(ctx, "resumes/c.pdf", strings.NewReader("%PDF"), 4, ""))
	assert.Equal(t, "Error parsing uploaded resume (cv.pdf): corrupt xref", r.Resolve(ctx, c))
}

func TestResolveMissingObject(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	c := &domain.Candidate{ResumeFileKey: strPtr("resumes/gone.pdf")}
	out := r.Resolve(context.Background(), c)
	assert.True(t, strings.HasPrefix(out, "Error parsing uploaded resume (resumes/gone.pdf): "))
}

func TestNormalizeURL(t *testing.T) {
	in := "https://docs.google.com/spreadsheets/u/2/d/e/XYZ/pubhtml"
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/e/XYZ/pub?output=csv", NormalizeURL(in))
	assert.Equal(t, "https://example.com/cv", NormalizeURL("https://example.com/cv"))
}

func TestResolveCSVURL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.WriteString(w, "Name,Skill\n,\nAda,Go\n")
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, nil)
	url := srv.URL + "/sheet"
	out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})

	assert.Equal(t, "Resume Source: External Link ("+url+")\n\n--- FETCHED CONTENT ---\nName, Skill\nAda, Go", out)
	assert.Equal(t, browserUserAgent, gotUA)
}

func TestResolveHTMLURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><head><meta property="og:description" content="Backend engineer"></head>
<body><table><tr><th>Skill</th><th>Years</th></tr><tr><td> Go </td><td>4</td></tr><tr><td></td></tr></table></body></html>`)
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, nil)
	url := srv.URL
	out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})
	assert.True(t, strings.HasSuffix(out, "--- FETCHED CONTENT ---\nBackend engineer\n\nSkill | Years\nGo | 4"), out)
}

func TestResolveHTMLFallsBackToPageText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><script>var x=1;</script><p>Hello   world</p></body></html>`)
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, nil)
	url := srv.URL
	out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})
	assert.True(t, strings.HasSuffix(out, "--- FETCHED CONTENT ---\nHello world"), out)
}

func TestResolveURLNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r, _ := newTestResolver(t, nil)
	url := srv.URL
	out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})
	assert.Equal(t, "Resume Source: External Link ("+url+")\n\n[ERROR]: Could not fetch content (Status: 403)", out)
}

func TestResolveURLTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	r := NewResolver(store, nil, 50*time.Millisecond)
	url := srv.URL
	out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})
	assert.Contains(t, out, "[ERROR]: Failed to fetch/parse URL content: ")
}

type recordingExtractor struct {
	name string
	body []byte
}

func (e *recordingExtractor) Extract(_ context.Context, filename string, r io.Reader) (string, error) {
	e.name = filename
	e.body, _ = io.ReadAll(r)
	return "Extracted \xff text\x00", nil
}

func TestResolvePDFURLUsesExtractor(t *testing.T) {
	pdf := "%PDF-1.4\n\xff\xfe\x00\x01 stream\x93"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, pdf)
	}))
	defer srv.Close()

	ex := &recordingExtractor{}
	r, _ := newTestResolver(t, ex)
	url := srv.URL + "/download"
	out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})

	assert.Equal(t, "resume.pdf", ex.name)
	assert.Equal(t, []byte(pdf), ex.body)
	assert.True(t, utf8.ValidString(out))
	assert.NotContains(t, out, "\x00")
	assert.True(t, strings.HasSuffix(out, "--- FETCHED CONTENT ---\nExtracted � text"), out)
}

func TestResolveURLBinaryBodyIsValidUTF8(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
	}{
		{"latin1 csv", "text/csv", "Jos\xe9,Python\n"},
		{"binary page", "application/octet-stream", "\xff\xfe\x00\x01<p>\x93</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			r, _ := newTestResolver(t, nil)
			url := srv.URL
			out := r.Resolve(context.Background(), &domain.Candidate{ResumeURL: &url})
			assert.True(t, utf8.ValidString(out), "%q", out)
			assert.NotContains(t, out, "\x00")
			assert.Contains(t, out, "--- FETCHED CONTENT ---")
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Jos�", CleanText("Jos\xe9"))
	assert.Equal(t, "ab", CleanText("a\x00b"))
	assert.Equal(t, "plain", CleanText("plain"))
}
