package mirror

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Xunop/book-manager/internal/model"
)

// looseInt accepts a JSON number, a numeric string or null.
type looseInt int

func (n *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return errors.Errorf("invalid integer %s", data)
	}
	*n = looseInt(f)
	return nil
}

// snapshotRecord is the shape of one element of books.json. Empty optional
// fields are written as null.
type snapshotRecord struct {
	ID              looseInt  `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn"`
	PublicationYear looseInt  `json:"publication_year"`
	Genre           string    `json:"genre"`
	Publisher       *string   `json:"publisher"`
	Language        *string   `json:"language"`
	PageCount       *looseInt `json:"page_count"`
	Description     *string   `json:"description"`
	CreatedAt       *string   `json:"created_at"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func newSnapshotRecord(b *model.Book) *snapshotRecord {
	r := &snapshotRecord{
		ID:              looseInt(b.ID),
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            optional(b.ISBN),
		PublicationYear: looseInt(b.PublicationYear),
		Genre:           b.Genre,
		Publisher:       optional(b.Publisher),
		Language:        optional(b.Language),
		Description:     optional(b.Description),
	}
	if b.PageCount != nil {
		n := looseInt(*b.PageCount)
		r.PageCount = &n
	}
	if !b.CreatedAt.IsZero() {
		r.CreatedAt = optional(b.CreatedAt.UTC().Format(time.RFC3339))
	}
	return r
}

// Layouts accepted for created_at, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// parseTime returns the zero time for values it cannot read.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func (r *snapshotRecord) book() *model.Book {
	b := &model.Book{
		ID:              int(r.ID),
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            deref(r.ISBN),
		PublicationYear: int(r.PublicationYear),
		Genre:           r.Genre,
		Publisher:       deref(r.Publisher),
		Language:        deref(r.Language),
		Description:     deref(r.Description),
		Origin:          model.OriginFile,
	}
	if b.Genre == "" {
		b.Genre = model.DefaultGenre
	}
	if r.PageCount != nil {
		n := int(*r.PageCount)
		b.PageCount = &n
	}
	if r.CreatedAt != nil {
		b.CreatedAt = parseTime(*r.CreatedAt)
	}
	return b
}

// xmlBook is one <book> element of an export. Fields left empty are omitted.
type xmlBook struct {
	Title           string `xml:"title,omitempty"`
	Author          string `xml:"author,omitempty"`
	ISBN            string `xml:"isbn,omitempty"`
	PublicationYear int    `xml:"publication_year"`
	Genre           string `xml:"genre,omitempty"`
	Publisher       string `xml:"publisher,omitempty"`
	Language        string `xml:"language,omitempty"`
	PageCount       *int   `xml:"page_count,omitempty"`
	Description     string `xml:"description,omitempty"`
}

type xmlBooks struct {
	XMLName xml.Name  `xml:"books"`
	Books   []xmlBook `xml:"book"`
}

func newXMLBook(b *model.Book) xmlBook {
	return xmlBook{
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		Genre:           b.Genre,
		Publisher:       b.Publisher,
		Language:        b.Language,
		PageCount:       b.PageCount,
		Description:     b.Description,
	}
}
