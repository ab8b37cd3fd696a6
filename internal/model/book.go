package model // import "github.com/Xunop/book-manager/internal/model"

import (
	"fmt"
	"time"
)

// Origin names the store a record was read from.
type Origin string

const (
	OriginDB   Origin = "db"
	OriginFile Origin = "file"
)

// ParseOrigin maps the `source` selector to an Origin, db by default.
func ParseOrigin(source string) Origin {
	if Origin(source) == OriginFile {
		return OriginFile
	}
	return OriginDB
}

type Book struct {
	ID              int       `json:"id"`
	Title           string    `json:"title" validate:"required,max=200"`
	Author          string    `json:"author" validate:"required,max=100"`
	ISBN            string    `json:"isbn" validate:"omitempty,max=17,isbn"`
	PublicationYear int       `json:"publication_year" validate:"gte=1000,lte=2030"`
	Genre           string    `json:"genre" validate:"required,genre"`
	Publisher       string    `json:"publisher" validate:"max=100"`
	Language        string    `json:"language" validate:"max=50"`
	PageCount       *int      `json:"page_count" validate:"omitempty,gte=1"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	Origin          Origin    `json:"-"`
}

func (b *Book) String() string {
	return fmt.Sprintf("%s - %s", b.Title, b.Author)
}

// GenreName returns the display name of the book's genre.
func (b *Book) GenreName() string {
	return GenreName(b.Genre)
}

// FromDB reports whether the record can be edited or deleted.
func (b *Book) FromDB() bool {
	return b.Origin == OriginDB
}

// Columns matched by the list page and by the interactive search.
var (
	ListSearchFields        = []string{"title", "author", "description"}
	InteractiveSearchFields = []string{"title", "author", "description", "isbn", "genre", "language"}
)

type FindBook struct {
	ID *int `json:"id"`
	// Query is matched case-insensitively as a substring of any of Fields.
	Query  *string  `json:"query"`
	Fields []string `json:"fields"`

	// Exact matches, used by the duplicate check.
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	PublicationYear *int    `json:"publication_year"`

	Limit  *int `json:"limit"`
	Offset *int `json:"offset"`
}

// SaveLocation is where the add form stores a new book.
type SaveLocation string

const (
	SaveToDB   SaveLocation = "db"
	SaveToFile SaveLocation = "file"
	SaveToBoth SaveLocation = "both"
)

var SaveLocations = []struct {
	Value SaveLocation
	Label string
}{
	{SaveToDB, "Сохранить в базу данных"},
	{SaveToFile, "Сохранить в файл"},
	{SaveToBoth, "Сохранить и в базу, и в файл"},
}

// ParseSaveLocation returns both for an empty value.
func ParseSaveLocation(v string) (SaveLocation, error) {
	switch SaveLocation(v) {
	case "":
		return SaveToBoth, nil
	case SaveToDB, SaveToFile, SaveToBoth:
		return SaveLocation(v), nil
	}
	return "", fmt.Errorf("unknown save location %q", v)
}

// ToDB reports whether the location writes to the database.
func (l SaveLocation) ToDB() bool {
	return l == SaveToDB || l == SaveToBoth
}
