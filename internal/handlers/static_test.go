package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPAHandlerFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "main.js"), []byte("console.log(1)"), 0o644))

	h := SPAHandler(dir)
	cases := map[string]string{
		"/":               "<html>app</html>",
		"/room/ABC123":    "<html>app</html>",
		"/assets":         "<html>app</html>",
		"/assets/main.js": "console.log(1)",
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		body, _ := io.ReadAll(rec.Body)
		assert.Equal(t, want, string(body), path)
	}
}

func TestRouterHealthAndMissingStaticDir(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewRouter(logger, nil, Limits{}, filepath.Join(t.TempDir(), "missing"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
