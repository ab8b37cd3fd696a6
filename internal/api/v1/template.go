package v1

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/Xunop/book-manager/internal/http/flash"
	"github.com/Xunop/book-manager/internal/http/response"
	"github.com/Xunop/book-manager/internal/model"
)

//go:embed templates
var templatesFS embed.FS

var pages = []string{
	"home",
	"book_list",
	"book_form",
	"book_delete",
	"export",
	"upload",
	"file_list",
	"file_view",
	"error",
}

var funcs = template.FuncMap{
	"genres":        func() []model.Genre { return model.Genres },
	"saveLocations": func() any { return model.SaveLocations },
	"add":           func(a, b int) int { return a + b },
	"bytes":         func(n int64) string { return humanize.IBytes(uint64(max(n, 0))) },
	"ago":           humanize.Time,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("02.01.2006 15:04")
	},
	"pageURL": func(source, query string, page int) string {
		v := url.Values{}
		v.Set("source", source)
		if query != "" {
			v.Set("q", query)
		}
		v.Set("page", strconv.Itoa(page))
		return "/books/?" + v.Encode()
	},
}

// parseTemplates builds one template set per page, each on top of the layout.
func parseTemplates() (map[string]*template.Template, error) {
	set := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout").Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", page)
		}
		set[page] = t
	}
	return set, nil
}

// basePage is embedded by every page.
type basePage struct {
	Page     string
	Title    string
	Messages []flash.Message
}

func (h *Handler) base(w http.ResponseWriter, r *http.Request, page, title string) basePage {
	return basePage{Page: page, Title: title, Messages: flash.Pop(w, r)}
}

func (h *Handler) execute(name string, data any) ([]byte, error) {
	t, ok := h.templates[name]
	if !ok {
		return nil, errors.Errorf("unknown template %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, errors.Wrapf(err, "failed to render %s", name)
	}
	return buf.Bytes(), nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	body, err := h.execute(name, data)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	response.HTML(w, r, http.StatusOK, body)
}

type errorPage struct {
	basePage
	Status  int
	Message string
}

func (h *Handler) errorBody(status int, message string) []byte {
	body, err := h.execute("error", errorPage{
		basePage: basePage{Page: "error", Title: http.StatusText(status)},
		Status:   status,
		Message:  message,
	})
	if err != nil {
		return []byte(fmt.Sprintf("%d %s", status, http.StatusText(status)))
	}
	return body
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	response.HTMLServerError(w, r, h.errorBody(http.StatusInternalServerError, "Внутренняя ошибка сервера"), err)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	response.HTMLNotFound(w, r, h.errorBody(http.StatusNotFound, "Страница не найдена"))
}
