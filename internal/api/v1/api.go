package v1

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Xunop/book-manager/internal/gateway"
	"github.com/Xunop/book-manager/internal/http/ratelimit"
	"github.com/Xunop/book-manager/internal/mirror"
	"github.com/Xunop/book-manager/internal/search"
	"github.com/Xunop/book-manager/internal/service"
)

type Handler struct {
	books     *service.BookService
	search    *search.Service
	gateway   *gateway.Gateway
	mirror    *mirror.Mirror
	limiter   *ratelimit.Limiter
	templates map[string]*template.Template
}

// NewHandler is a constructor for the v1.Handler. limiter may be nil.
func NewHandler(books *service.BookService, search *search.Service, gateway *gateway.Gateway, mirror *mirror.Mirror, limiter *ratelimit.Limiter) (*Handler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		books:     books,
		search:    search,
		gateway:   gateway,
		mirror:    mirror,
		limiter:   limiter,
		templates: templates,
	}, nil
}

func Server(router *mux.Router, handler *Handler) {
	router.NotFoundHandler = http.HandlerFunc(handler.notFound)

	router.HandleFunc("/", handler.home).Methods(http.MethodGet).Name("home")
	router.HandleFunc("/books/", handler.listBooks).Methods(http.MethodGet).Name("book_list")
	router.HandleFunc("/books/add/", handler.addBook).Methods(http.MethodGet, http.MethodPost).Name("add_book")
	router.HandleFunc("/books/{id:[0-9]+}/edit/", handler.editBook).Methods(http.MethodGet, http.MethodPost).Name("edit_book")
	router.HandleFunc("/books/{id:[0-9]+}/delete/", handler.deleteBook).Methods(http.MethodGet, http.MethodPost).Name("delete_book")
	router.HandleFunc("/export/", handler.exportBooks).Methods(http.MethodGet, http.MethodPost).Name("export_books")
	router.HandleFunc("/upload/", handler.uploadFile).Methods(http.MethodGet, http.MethodPost).Name("upload_file")
	router.HandleFunc("/files/", handler.listFiles).Methods(http.MethodGet).Name("file_list")
	router.HandleFunc("/files/{filename}/", handler.viewFile).Methods(http.MethodGet).Name("view_file")

	var searchHandler http.Handler = http.HandlerFunc(handler.searchBooks)
	if handler.limiter != nil {
		searchHandler = handler.limiter.Middleware(searchHandler)
	}
	router.Handle("/search/", searchHandler).Methods(http.MethodGet).Name("search_books")
}

type homePage struct {
	basePage
	BooksCount int
	FilesCount int
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.books.Sync(ctx)

	booksCount, err := h.books.Count(ctx)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	filesCount, err := h.mirror.CountFiles()
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "home", homePage{
		basePage:   h.base(w, r, "home", "Главная"),
		BooksCount: booksCount,
		FilesCount: filesCount,
	})
}
