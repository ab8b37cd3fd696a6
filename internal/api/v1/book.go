package v1

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/http/flash"
	"github.com/Xunop/book-manager/internal/http/request"
	"github.com/Xunop/book-manager/internal/http/response"
	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/model"
	"github.com/Xunop/book-manager/internal/search"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/validator"
)

const duplicateMessage = "Книга с таким названием, автором и годом издания уже существует"

type listPage struct {
	basePage
	Result *search.Page
	Source string
	Query  string
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	source := model.ParseOrigin(request.QueryStringParam(r, "source", string(model.OriginDB)))
	query := request.QueryStringParam(r, "q", "")

	if source == model.OriginDB {
		h.books.Sync(ctx)
	}

	result, err := h.search.List(ctx, search.Query{
		Source: source,
		Text:   query,
		Page:   request.QueryStringParam(r, "page", ""),
	})
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	h.render(w, r, "book_list", listPage{
		basePage: h.base(w, r, "book_list", "Книги"),
		Result:   result,
		Source:   string(source),
		Query:    query,
	})
}

type formPage struct {
	basePage
	Form   *bookForm
	Action string
	Edit   bool
}

// formErrors moves a validation or duplicate error into the form. Other
// errors are returned unchanged.
func formErrors(form *bookForm, err error) error {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		form.addErrors(verr.Fields)
		return nil
	case errors.Is(err, store.ErrDuplicateBook):
		form.Errors["title"] = duplicateMessage
		return nil
	}
	return err
}

func savedMessage(book *model.Book, location model.SaveLocation) string {
	switch location {
	case model.SaveToDB:
		return fmt.Sprintf("Книга \"%s\" сохранена в базу данных!", book.Title)
	case model.SaveToFile:
		return fmt.Sprintf("Книга \"%s\" сохранена в файл!", book.Title)
	}
	return fmt.Sprintf("Книга \"%s\" добавлена и сохранена в JSON!", book.Title)
}

// savedListURL is the list that shows a newly saved book. The db list
// resyncs the snapshot, which drops books saved to the file only.
func savedListURL(location model.SaveLocation) string {
	if location == model.SaveToFile {
		return "/books/?source=file"
	}
	return "/books/"
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	page := formPage{Action: "/books/add/"}
	if r.Method != http.MethodPost {
		page.basePage = h.base(w, r, "add_book", "Добавить книгу")
		page.Form = newBookForm(nil)
		h.render(w, r, "book_form", page)
		return
	}

	form := parseBookForm(r)
	book, ok := form.book()
	location, err := model.ParseSaveLocation(form.SaveLocation)
	if err != nil {
		form.Errors["save_location"] = "Выберите корректный вариант"
		ok = false
	}
	if ok {
		saved, err := h.books.Create(r.Context(), book, location)
		if err == nil {
			flash.Success(w, savedMessage(saved, location))
			response.Redirect(w, r, savedListURL(location))
			return
		}
		if err := formErrors(form, err); err != nil {
			h.serverError(w, r, err)
			return
		}
	} else if verr := validator.ValidateBook(book); verr != nil {
		// report the remaining field errors too
		formErrors(form, verr)
	}

	log.Debug("Invalid book form", zap.Any("errors", form.Errors))
	page.basePage = h.base(w, r, "add_book", "Добавить книгу")
	page.Form = form
	h.render(w, r, "book_form", page)
}

// bookFromRoute returns nil after writing a response when the book cannot be loaded.
func (h *Handler) bookFromRoute(w http.ResponseWriter, r *http.Request) *model.Book {
	book, err := h.books.Get(r.Context(), request.RouteIntParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			h.notFound(w, r)
		} else {
			h.serverError(w, r, err)
		}
		return nil
	}
	return book
}

func (h *Handler) editBook(w http.ResponseWriter, r *http.Request) {
	book := h.bookFromRoute(w, r)
	if book == nil {
		return
	}
	page := formPage{Action: fmt.Sprintf("/books/%d/edit/", book.ID), Edit: true}
	if r.Method != http.MethodPost {
		page.basePage = h.base(w, r, "edit_book", "Редактировать книгу")
		page.Form = newBookForm(book)
		h.render(w, r, "book_form", page)
		return
	}

	form := parseBookForm(r)
	edit, ok := form.book()
	edit.ID = book.ID
	if ok {
		updated, err := h.books.Update(r.Context(), edit)
		if err == nil {
			flash.Success(w, fmt.Sprintf("Книга \"%s\" успешно обновлена!", updated.Title))
			response.Redirect(w, r, "/books/")
			return
		}
		if errors.Is(err, store.ErrBookNotFound) {
			h.notFound(w, r)
			return
		}
		if err := formErrors(form, err); err != nil {
			h.serverError(w, r, err)
			return
		}
	} else if verr := validator.ValidateBook(edit); verr != nil {
		formErrors(form, verr)
	}

	page.basePage = h.base(w, r, "edit_book", "Редактировать книгу")
	page.Form = form
	h.render(w, r, "book_form", page)
}

type deletePage struct {
	basePage
	Book *model.Book
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	book := h.bookFromRoute(w, r)
	if book == nil {
		return
	}
	if r.Method != http.MethodPost {
		h.render(w, r, "book_delete", deletePage{
			basePage: h.base(w, r, "delete_book", "Удалить книгу"),
			Book:     book,
		})
		return
	}

	deleted, err := h.books.Delete(r.Context(), book.ID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	flash.Success(w, fmt.Sprintf("Книга \"%s\" успешно удалена!", deleted.Title))
	response.Redirect(w, r, "/books/")
}
