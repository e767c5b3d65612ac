package site

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vempatir/portfolio/internal/analytics"
	"github.com/vempatir/portfolio/internal/projects"
	"github.com/vempatir/portfolio/internal/rotator"
)

var testLabels = []string{"Software Engineer", "Problem Solver", "Tech Enthusiast"}

func testContent() Content {
	return Content{
		Name:   "Radhakrishna Vempati",
		Intro:  "Building things.",
		About:  []string{"First paragraph.", "Second paragraph."},
		Labels: testLabels,
		Projects: []projects.Project{
			{ID: 1, Title: "Live Only", Technologies: []string{"A", "B", "C"}, LiveLink: "https://x.test", ImageURL: projects.PlaceholderImage},
			{ID: 2, Title: "No Links", Technologies: nil},
			{ID: 3, Title: "Both Links", LiveLink: "https://demo.test", GithubLink: "https://github.com/u/r", ImageURL: "/images/shot.png"},
			{ID: 4, Title: "Bad Image", ImageURL: "/images/shot.gif", LiveLink: "not a url"},
			{ID: 5, Title: "Missing Image", ImageURL: "/images/missing.png"},
		},
		Email:        "vempatir@uci.edu",
		EmailDisplay: "vempatir at uci dot edu",
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func testImages() fstest.MapFS {
	return fstest.MapFS{"shot.png": {Data: pngHeader}}
}

type event struct {
	kind   analytics.EventKind
	target string
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recordingRecorder) RecordVisit(context.Context, string, string, string) error { return nil }

func (r *recordingRecorder) RecordEvent(_ context.Context, kind analytics.EventKind, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind, target})
	return nil
}

func (r *recordingRecorder) recorded() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

func newTestServer(t *testing.T, opts ...func(*Config)) (*Server, *recordingRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := &recordingRecorder{}
	cfg := Config{
		Content:  testContent(),
		Recorder: rec,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Images:   testImages(),
		Now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	srv, err := New(cfg)
	require.NoError(t, err)
	return srv, rec
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// cardHTML cuts the markup of one project card out of a page.
func cardHTML(t *testing.T, body string, id string) string {
	t.Helper()
	for _, chunk := range strings.Split(body, "<article")[1:] {
		if strings.Contains(chunk, `data-project-id="`+id+`"`) {
			end := strings.Index(chunk, "</article>")
			require.NotEqual(t, -1, end)
			return chunk[:end]
		}
	}
	t.Fatalf("card %s not found", id)
	return ""
}

func TestNewRejectsBadContent(t *testing.T) {
	content := testContent()
	content.Labels = nil
	_, err := New(Config{Content: content})
	assert.ErrorIs(t, err, rotator.ErrNoLabels)

	content = testContent()
	content.Projects = append(content.Projects, projects.Project{ID: 1, Title: "dup"})
	_, err = New(Config{Content: content})
	assert.ErrorIs(t, err, projects.ErrDuplicateID)
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(t, srv.Engine(), "/")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()

	assert.Contains(t, body, `<html lang="en" class="dark">`)
	assert.Contains(t, body, "Radhakrishna Vempati")
	assert.Contains(t, body, `data-stream="/hero/label/stream"`)
	assert.Contains(t, body, ">Software Engineer</span>")
	assert.Contains(t, body, "<p>Second paragraph.</p>")
	assert.Contains(t, body, "vempatir at uci dot edu")
	assert.Contains(t, body, `hx-post="/contact/copy"`)
	assert.Contains(t, body, "&copy; 2025 Radhakrishna Vempati.")
	assert.Contains(t, body, `href="/privacy"`)
	assert.Equal(t, 5, strings.Count(body, "<article"))
}

func TestIndexTheme(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Engine()

	body := get(t, router, "/?theme=light").Body.String()
	assert.Contains(t, body, `<html lang="en" class="">`)
	assert.Contains(t, body, `href="/?theme=dark"`)

	body = get(t, router, "/?theme=purple").Body.String()
	assert.Contains(t, body, `<html lang="en" class="dark">`)
	assert.Contains(t, body, `href="/?theme=light"`)

	// nothing is remembered between requests
	get(t, router, "/?theme=light")
	body = get(t, router, "/").Body.String()
	assert.Contains(t, body, `<html lang="en" class="dark">`)
}

func TestProjectCardAffordances(t *testing.T) {
	srv, _ := newTestServer(t)
	body := get(t, srv.Engine(), "/").Body.String()

	t.Run("live link only", func(t *testing.T) {
		card := cardHTML(t, body, "1")
		assert.Equal(t, 1, strings.Count(card, `data-affordance="live"`))
		assert.Equal(t, 0, strings.Count(card, `data-affordance="source"`))
		assert.Contains(t, card, `href="/out/1/live" target="_blank" rel="noopener noreferrer"`)
	})

	t.Run("no links", func(t *testing.T) {
		card := cardHTML(t, body, "2")
		assert.NotContains(t, card, "data-affordance")
		assert.Contains(t, card, `data-block="tags"></div>`)
	})

	t.Run("both links", func(t *testing.T) {
		card := cardHTML(t, body, "3")
		assert.Equal(t, 1, strings.Count(card, `data-affordance="live"`))
		assert.Equal(t, 1, strings.Count(card, `data-affordance="source"`))
	})

	t.Run("placeholder image", func(t *testing.T) {
		card := cardHTML(t, body, "1")
		assert.NotContains(t, card, `data-block="image"`)
		assert.NotContains(t, card, "<img")
		assert.Contains(t, card, `class="w-full p-4" data-block="content"`)
		assert.Contains(t, card, `data-layout="full"`)
	})

	t.Run("real image", func(t *testing.T) {
		card := cardHTML(t, body, "3")
		assert.Contains(t, card, `data-block="image"`)
		assert.Contains(t, card, `<img src="/images/shot.png" alt="Both Links"`)
		assert.Contains(t, card, `class="md:w-2/3 p-4" data-block="content"`)
		assert.Contains(t, card, `data-layout="split"`)
	})

	t.Run("image missing from disk", func(t *testing.T) {
		card := cardHTML(t, body, "5")
		assert.NotContains(t, card, "<img")
		assert.Contains(t, card, `data-layout="full"`)
	})

	t.Run("invalid optional fields", func(t *testing.T) {
		card := cardHTML(t, body, "4")
		assert.NotContains(t, card, "<img")
		assert.NotContains(t, card, "data-affordance")
	})

	t.Run("tags in order", func(t *testing.T) {
		card := cardHTML(t, body, "1")
		assert.Equal(t, 3, strings.Count(card, "data-tag>"))
		a := strings.Index(card, "data-tag>A<")
		b := strings.Index(card, "data-tag>B<")
		c := strings.Index(card, "data-tag>C<")
		require.True(t, a >= 0 && b >= 0 && c >= 0)
		assert.Less(t, a, b)
		assert.Less(t, b, c)
	})
}

func TestHeroLabelFragment(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(t, srv.Engine(), "/hero/label")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-index="0"`)
	assert.Contains(t, rr.Body.String(), ">Software Engineer</span>")
}

var imgSrc = regexp.MustCompile(`<img src="([^"]+)"`)

func TestCardImagesAreServed(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Engine()
	body := get(t, router, "/").Body.String()

	var srcs []string
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		if m := imgSrc.FindStringSubmatch(cardHTML(t, body, id)); m != nil {
			srcs = append(srcs, m[1])
		}
	}
	require.Equal(t, []string{"/images/shot.png"}, srcs)

	for _, src := range srcs {
		rr := get(t, router, src)
		assert.Equal(t, http.StatusOK, rr.Code, src)
		assert.Equal(t, pngHeader, rr.Body.Bytes())
	}
	assert.Equal(t, http.StatusNotFound, get(t, router, "/images/missing.png").Code)
}

func TestCardImageWithoutImageDir(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *Config) { cfg.Images = nil })
	router := srv.Engine()

	card := cardHTML(t, get(t, router, "/").Body.String(), "3")
	assert.NotContains(t, card, "<img")
	assert.Contains(t, card, `data-layout="full"`)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/images/shot.png").Code)
}

func post(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCopyEmail(t *testing.T) {
	srv, rec := newTestServer(t)
	router := srv.Engine()

	rr := post(t, router, "/contact/copy", nil)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.JSONEq(t, `{"clipboard-write":{"text":"vempatir@uci.edu","result":"/contact/copy/result"}}`, rr.Header().Get("HX-Trigger"))
	assert.Empty(t, rr.Body.String())

	// the browser has not written anything yet
	assert.Empty(t, rec.recorded())
}

func TestCopyResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv, rec := newTestServer(t)
		rr := post(t, srv.Engine(), "/contact/copy/result", url.Values{"status": {"success"}})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, strings.Count(rr.Body.String(), `role="status"`))
		assert.Contains(t, rr.Body.String(), `data-status="success"`)
		assert.Contains(t, rr.Body.String(), "Email copied to clipboard!")
		assert.Equal(t, []event{{analytics.EventCopyEmail, "vempatir@uci.edu"}}, rec.recorded())
	})

	t.Run("failure", func(t *testing.T) {
		srv, rec := newTestServer(t)
		rr := post(t, srv.Engine(), "/contact/copy/result", url.Values{"status": {"failure"}})

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 1, strings.Count(rr.Body.String(), `role="status"`))
		assert.Contains(t, rr.Body.String(), `data-status="failure"`)
		assert.NotContains(t, rr.Body.String(), "Email copied")
		assert.Empty(t, rec.recorded())
	})

	t.Run("unknown status", func(t *testing.T) {
		srv, rec := newTestServer(t)
		rr := post(t, srv.Engine(), "/contact/copy/result", url.Values{"status": {"maybe"}})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NotContains(t, rr.Body.String(), `role="status"`)
		assert.Empty(t, rec.recorded())
	})
}

func TestCopyEmailHandOffFailure(t *testing.T) {
	srv, rec := newTestServer(t)

	// something earlier in the chain already wrote the response
	router := srv.Engine(func(c *gin.Context) {
		if c.Request.URL.Path == "/contact/copy" {
			c.Writer.WriteHeaderNow()
		}
	})
	rr := post(t, router, "/contact/copy", nil)

	assert.Empty(t, rr.Header().Get("HX-Trigger"))
	assert.Equal(t, 1, strings.Count(rr.Body.String(), `role="status"`))
	assert.Contains(t, rr.Body.String(), `data-status="failure"`)
	assert.Empty(t, rec.recorded())
}

func TestPrivacy(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *Config) { cfg.Retention = 365 * 24 * time.Hour })
	rr := get(t, srv.Engine(), "/privacy")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Privacy Policy")
	assert.Contains(t, rr.Body.String(), "deleted after 365 days")

	srv, _ = newTestServer(t)
	body := get(t, srv.Engine(), "/privacy").Body.String()
	assert.Contains(t, body, "does not record visits")
	assert.NotContains(t, body, `id="retention"`)
}

func TestOutbound(t *testing.T) {
	srv, rec := newTestServer(t)
	router := srv.Engine()

	rr := get(t, router, "/out/1/live")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://x.test", rr.Header().Get("Location"))

	rr = get(t, router, "/out/3/source")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://github.com/u/r", rr.Header().Get("Location"))

	for _, path := range []string{"/out/1/source", "/out/4/live", "/out/99/live", "/out/one/live", "/out/1/demo"} {
		assert.Equal(t, http.StatusNotFound, get(t, router, path).Code, path)
	}

	assert.Equal(t, []event{
		{analytics.EventOpenLive, "https://x.test"},
		{analytics.EventOpenSource, "https://github.com/u/r"},
	}, rec.recorded())
}

func TestRenderIndexStatic(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	require.NoError(t, srv.RenderIndex(&buf, ThemeDark))
	body := buf.String()

	assert.NotContains(t, body, "data-stream")
	assert.NotContains(t, body, "/out/")
	assert.Contains(t, body, `data-copy-text="vempatir@uci.edu"`)
	assert.Contains(t, body, `href="https://x.test"`)
	assert.NotContains(t, body, `href="/privacy"`)
}

func TestStaticAssets(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(t, srv.Engine(), "/static/app.js")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "clipboard-write")
}

func TestThemeToggleScriptKeepsLinkInSync(t *testing.T) {
	srv, _ := newTestServer(t)
	js := get(t, srv.Engine(), "/static/app.js").Body.String()

	// after flipping in place the toggle must describe the next flip
	assert.Contains(t, js, "toggle.setAttribute('aria-label', 'Switch to ' + next + ' theme')")
	assert.Contains(t, js, "toggle.setAttribute('href', '/?theme=' + next)")
}

func TestParseTheme(t *testing.T) {
	assert.Equal(t, ThemeLight, ParseTheme("light"))
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, DefaultTheme, ParseTheme(""))
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, "dark", ThemeDark.RootClass())
	assert.Empty(t, ThemeLight.RootClass())
}
