package search

import (
	"strconv"
	"strings"

	"github.com/Xunop/book-manager/internal/model"
)

// Page is one page of a listing. Number is 1-based.
type Page struct {
	Books    []*model.Book
	Number   int
	NumPages int
	Total    int
	PageSize int
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) PreviousNumber() int {
	return p.Number - 1
}

func (p *Page) NextNumber() int {
	return p.Number + 1
}

// StartIndex is the 1-based position of the first book on the page, 0 if empty.
func (p *Page) StartIndex() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Number-1)*p.PageSize + 1
}

func numPages(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// pageNumber resolves the requested page. A missing or non-numeric value is
// page 1, anything out of range is the last page.
func pageNumber(raw string, total, size int) int {
	last := numPages(total, size)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > last {
		return last
	}
	return n
}
