// Package xmlstream reads dump files shaped as a single document element
// wrapping self-closing <row .../> elements whose data lives entirely in
// attributes.
package xmlstream

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Attr is one (name, raw value) attribute of a row, in document order.
type Attr struct {
	Name  string
	Value string
}

// Row is one record element.
type Row struct {
	Attrs []Attr
}

// Reader streams rows from an XML document. It never materializes the whole
// file; dump files run to tens of gigabytes.
type Reader struct {
	dec *xml.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Next returns the next row, or io.EOF when the document ends. Elements other
// than <row> (the document element in particular) are skipped.
func (r *Reader) Next() (Row, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return Row{}, io.EOF
		}
		if err != nil {
			return Row{}, fmt.Errorf("read record: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "row" {
			continue
		}
		attrs := make([]Attr, len(start.Attr))
		for i, a := range start.Attr {
			attrs[i] = Attr{Name: "@" + a.Name.Local, Value: a.Value}
		}
		if err := r.dec.Skip(); err != nil {
			return Row{}, fmt.Errorf("read record: %w", err)
		}
		return Row{Attrs: attrs}, nil
	}
}
