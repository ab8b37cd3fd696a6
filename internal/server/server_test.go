package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/Xunop/book-manager/internal/api/v1"
	"github.com/Xunop/book-manager/internal/config"
	"github.com/Xunop/book-manager/internal/gateway"
	"github.com/Xunop/book-manager/internal/mirror"
	"github.com/Xunop/book-manager/internal/search"
	"github.com/Xunop/book-manager/internal/service"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/store/db"
	"github.com/Xunop/book-manager/internal/version"
)

func newTestHandler(t *testing.T, metrics bool) http.Handler {
	t.Helper()
	config.GetDefaultOptions()
	config.Opts.MetricsCollector = metrics

	dir := t.TempDir()
	d, err := db.NewDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.Migrate(context.Background()))

	s := store.NewStore(d.DB, 0)
	m, err := mirror.New(filepath.Join(dir, "mirror"), 200)
	require.NoError(t, err)
	syncer := mirror.NewSyncer(s, m)

	handler, err := v1.NewHandler(
		service.NewBookService(s, m, syncer),
		search.New(s, m, 10, 15),
		gateway.New(s, m, syncer, "Русский"),
		m,
		nil,
	)
	require.NoError(t, err)
	return setupHandler(s, handler)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthcheck(t *testing.T) {
	w := get(newTestHandler(t, false), "/healthcheck")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestVersion(t *testing.T) {
	w := get(newTestHandler(t, false), "/version")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, version.GetCurrentVersion(), w.Body.String())
}

func TestStrictSlashRedirect(t *testing.T) {
	w := get(newTestHandler(t, false), "/books")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/books/", w.Header().Get("Location"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t, true)
	require.Equal(t, http.StatusOK, get(h, "/").Code)

	w := get(h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "book_manager_http_requests_total"))
	assert.Contains(t, body, `route="/"`)
}

func TestMetricsDisabled(t *testing.T) {
	w := get(newTestHandler(t, false), "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartServerShutsDownWithContext(t *testing.T) {
	config.GetDefaultOptions()
	config.Opts.Host = "127.0.0.1"
	config.Opts.Port = 0
	config.Opts.ShutdownTimeout = 1

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	done := startHTTPServer(ctx, srv)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
