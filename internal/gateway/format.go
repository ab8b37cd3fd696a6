package gateway

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

func ParseFormat(v string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(v))); f {
	case FormatJSON, FormatXML:
		return f, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%q", v)
}

// fields is one record of an uploaded document, keyed by field name.
type fields map[string]any

var ErrNotText = errors.New("uploaded file is not a text document")

// checkText rejects binary content such as images or archives.
func checkText(data []byte) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return errors.Wrapf(ErrNotText, "detected %s", detected.String())
}

func parse(r io.Reader, format Format) ([]fields, error) {
	if format != FormatJSON && format != FormatXML {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if err := checkText(data); err != nil {
		return nil, err
	}

	if format == FormatJSON {
		return parseJSON(data)
	}
	return parseXML(bytes.NewReader(data))
}

// parseJSON reads an array of objects.
func parseJSON(data []byte) ([]fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []fields
	if err := dec.Decode(&records); err != nil {
		return nil, errors.Wrap(err, "invalid JSON, expected an array of books")
	}
	return records, nil
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlDocument struct {
	Books []struct {
		Fields []xmlField `xml:",any"`
	} `xml:"book"`
}

// parseXML reads the <book> children of the root element, whatever its name.
// Every child of a <book> becomes a field named after its tag.
func parseXML(r io.Reader) ([]fields, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "invalid XML")
	}
	records := make([]fields, 0, len(doc.Books))
	for _, b := range doc.Books {
		f := make(fields, len(b.Fields))
		for _, child := range b.Fields {
			f[child.XMLName.Local] = child.Value
		}
		records = append(records, f)
	}
	return records, nil
}

// str returns the trimmed text of key, "" if absent or null.
func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// number returns nil if key is absent or empty. Integral floats such as 1999.0 are accepted.
func (f fields) number(key string) (*int, error) {
	s := f.str(key)
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == float64(int(v)) {
		n := int(v)
		return &n, nil
	}
	return nil, errors.Errorf("%s must be a number, got %q", key, s)
}
