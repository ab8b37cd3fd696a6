package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestFindClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:1", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-Ip": "2001:db8::1"}, "10.0.0.1:1", "2001:db8::1"},
		{"invalid header", map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.2:1", "10.0.0.2"},
		{"no port", nil, "10.0.0.3", "10.0.0.3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = c.remote
			for k, v := range c.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, c.want, FindClientIP(r))
		})
	}
}

func TestClientIPFromContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), ClientIPContextKey, "198.51.100.9"))
	assert.Equal(t, "198.51.100.9", ClientIP(r))
}

func TestRouteIntParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/12/edit/", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "12", "bad": "x", "neg": "-3"})
	assert.Equal(t, 12, RouteIntParam(r, "id"))
	assert.Equal(t, 0, RouteIntParam(r, "bad"))
	assert.Equal(t, 0, RouteIntParam(r, "neg"))
	assert.Equal(t, 0, RouteIntParam(r, "missing"))
}

func TestQueryStringParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/books/?source=file&q=%20", nil)
	assert.Equal(t, "file", QueryStringParam(r, "source", "db"))
	assert.Equal(t, "fallback", QueryStringParam(r, "q", "fallback"))
	assert.Equal(t, "1", QueryStringParam(r, "page", "1"))
}

func TestIsXHR(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/search/", nil)
	assert.False(t, IsXHR(r))
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	assert.True(t, IsXHR(r))
}
