package response // import "github.com/Xunop/book-manager/internal/http/response"

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
)

// Builder generates HTTP responses.
type Builder struct {
	w          http.ResponseWriter
	r          *http.Request
	statusCode int
	headers    map[string]string
	body       []byte
}

// New creates a new response builder.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{w: w, r: r, statusCode: http.StatusOK, headers: make(map[string]string)}
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) *Builder {
	b.statusCode = statusCode
	return b
}

// WithHeader adds the given HTTP header to the response.
func (b *Builder) WithHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithBody uses the given body to build the response.
func (b *Builder) WithBody(body []byte) *Builder {
	b.body = body
	return b
}

// WithoutCache adds HTTP headers to disable caching.
func (b *Builder) WithoutCache() *Builder {
	b.headers["Cache-Control"] = "no-cache, no-store, must-revalidate"
	b.headers["Pragma"] = "no-cache"
	b.headers["Expires"] = "0"
	return b
}

// WithAttachment marks the response as a file download named filename.
func (b *Builder) WithAttachment(filename string) *Builder {
	b.headers["Content-Disposition"] = `attachment; filename="` + filename + `"`
	return b
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	b.headers["X-Content-Type-Options"] = "nosniff"
	b.headers["X-Frame-Options"] = "DENY"

	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}

	b.w.WriteHeader(b.statusCode)
	if b.body == nil {
		return
	}
	if _, err := b.w.Write(b.body); err != nil {
		log.Debug("Unable to write response body", zap.Error(err))
	}
}
