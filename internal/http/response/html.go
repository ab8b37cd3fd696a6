package response

import (
	"net/http"
)

// HTML sends a rendered page.
func HTML(w http.ResponseWriter, r *http.Request, statusCode int, body []byte) {
	builder := New(w, r)
	builder.WithStatus(statusCode)
	builder.WithHeader("Content-Type", "text/html; charset=utf-8")
	builder.WithoutCache()
	builder.WithBody(body)
	builder.Write()
}

// Text sends a plain text response with a 200 status code.
func Text(w http.ResponseWriter, r *http.Request, body string) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", "text/plain; charset=utf-8")
	builder.WithBody([]byte(body))
	builder.Write()
}

// Redirect sends a 302 to uri.
func Redirect(w http.ResponseWriter, r *http.Request, uri string) {
	http.Redirect(w, r, uri, http.StatusFound)
}

// Attachment sends body as a file download.
func Attachment(w http.ResponseWriter, r *http.Request, filename, contentType string, body []byte) {
	builder := New(w, r)
	builder.WithHeader("Content-Type", contentType)
	builder.WithAttachment(filename)
	builder.WithoutCache()
	builder.WithBody(body)
	builder.Write()
}

// HTMLServerError logs err and sends an error page with a 500 status code.
func HTMLServerError(w http.ResponseWriter, r *http.Request, body []byte, err error) {
	logError(r, http.StatusInternalServerError, err)
	HTML(w, r, http.StatusInternalServerError, body)
}

// HTMLNotFound sends an error page with a 404 status code.
func HTMLNotFound(w http.ResponseWriter, r *http.Request, body []byte) {
	logWarn(r, http.StatusNotFound, nil)
	HTML(w, r, http.StatusNotFound, body)
}
