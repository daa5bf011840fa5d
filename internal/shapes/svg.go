package shapes

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrPathNotFound is returned when a document has no matching <path>.
var ErrPathNotFound = errors.New("shapes: path element not found")

// LoadSVG reads an SVG document and flattens the <path> element with the
// given id, or the first <path> when id is empty.
func LoadSVG(r io.Reader, id string) (*Polyline, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading svg: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "path" {
			continue
		}
		var elID, d string
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "id":
				elID = a.Value
			case "d":
				d = a.Value
			}
		}
		if id != "" && elID != id {
			continue
		}
		pl, err := ParsePathData(d)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", elID, err)
		}
		return pl, nil
	}

	if id != "" {
		return nil, fmt.Errorf("%w: id %q", ErrPathNotFound, id)
	}
	return nil, ErrPathNotFound
}
