package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Xunop/book-manager/internal/model"
)

// bookForm holds the raw values of the add and edit forms.
type bookForm struct {
	Title           string
	Author          string
	ISBN            string
	PublicationYear string
	Genre           string
	Publisher       string
	Language        string
	PageCount       string
	Description     string
	SaveLocation    string
	// Errors maps a field name, or __all__, to its message.
	Errors map[string]string
}

func newBookForm(b *model.Book) *bookForm {
	f := &bookForm{
		Genre:        model.DefaultGenre,
		SaveLocation: string(model.SaveToBoth),
		Errors:       map[string]string{},
	}
	if b == nil {
		return f
	}
	f.Title = b.Title
	f.Author = b.Author
	f.ISBN = b.ISBN
	f.PublicationYear = strconv.Itoa(b.PublicationYear)
	f.Genre = b.Genre
	f.Publisher = b.Publisher
	f.Language = b.Language
	if b.PageCount != nil {
		f.PageCount = strconv.Itoa(*b.PageCount)
	}
	f.Description = b.Description
	return f
}

func parseBookForm(r *http.Request) *bookForm {
	value := func(name string) string {
		return strings.TrimSpace(r.PostFormValue(name))
	}
	return &bookForm{
		Title:           value("title"),
		Author:          value("author"),
		ISBN:            value("isbn"),
		PublicationYear: value("publication_year"),
		Genre:           value("genre"),
		Publisher:       value("publisher"),
		Language:        value("language"),
		PageCount:       value("page_count"),
		Description:     strings.TrimRight(r.PostFormValue("description"), " \t\r\n"),
		SaveLocation:    value("save_location"),
		Errors:          map[string]string{},
	}
}

// book converts the values. Fields that are not numbers get an error and
// false is returned.
func (f *bookForm) book() (*model.Book, bool) {
	b := &model.Book{
		Title:       f.Title,
		Author:      f.Author,
		ISBN:        f.ISBN,
		Genre:       f.Genre,
		Publisher:   f.Publisher,
		Language:    f.Language,
		Description: f.Description,
	}

	if f.PublicationYear == "" {
		f.Errors["publication_year"] = "Обязательное поле"
	} else if year, err := strconv.Atoi(f.PublicationYear); err != nil {
		f.Errors["publication_year"] = "Введите целое число"
	} else {
		b.PublicationYear = year
	}

	if f.PageCount != "" {
		if n, err := strconv.Atoi(f.PageCount); err != nil {
			f.Errors["page_count"] = "Введите целое число"
		} else {
			b.PageCount = &n
		}
	}
	return b, len(f.Errors) == 0
}

// addErrors copies field messages that are not already set.
func (f *bookForm) addErrors(fields map[string]string) {
	for name, message := range fields {
		if _, ok := f.Errors[name]; !ok {
			f.Errors[name] = message
		}
	}
}
