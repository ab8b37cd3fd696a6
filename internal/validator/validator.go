package validator // import "github.com/Xunop/book-manager/internal/validator"

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Xunop/book-manager/internal/model"
)

// ValidationError maps json field names to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// Replaces the built-in isbn check, which requires valid checksums.
	v.RegisterValidation("isbn", validateISBN)
	v.RegisterValidation("genre", validateGenre)
	return v
}

// CleanISBN strips hyphens and whitespace.
func CleanISBN(isbn string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, isbn)
}

// IsISBN reports whether isbn has 10 or 13 digits once hyphens and spaces are removed.
func IsISBN(isbn string) bool {
	clean := CleanISBN(isbn)
	if len(clean) != 10 && len(clean) != 13 {
		return false
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validateISBN(fl validator.FieldLevel) bool {
	return IsISBN(fl.Field().String())
}

func validateGenre(fl validator.FieldLevel) bool {
	return model.IsGenre(fl.Field().String())
}

// ValidateBook checks a book against the rules shared by the forms and the import.
func ValidateBook(book *model.Book) error {
	if book == nil {
		return errors.New("book is nil")
	}
	err := validate.Struct(book)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return errors.Wrap(err, "failed to validate book")
	}
	fields := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		if _, ok := fields[e.Field()]; !ok {
			fields[e.Field()] = friendlyMessage(e)
		}
	}
	return &ValidationError{Fields: fields}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Обязательное поле"
	case "max":
		return fmt.Sprintf("Не более %s символов", e.Param())
	case "isbn":
		return "ISBN должен содержать 10 или 13 цифр"
	case "genre":
		return "Неизвестный жанр"
	case "gte", "lte":
		if e.Field() == "publication_year" {
			return "Год публикации должен быть между 1000 и 2030"
		}
		if e.Tag() == "gte" {
			return "Значение должно быть не меньше " + e.Param()
		}
		return "Значение должно быть не больше " + e.Param()
	default:
		return "Некорректное значение"
	}
}
