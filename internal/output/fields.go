package output

import (
	"fmt"
	"io"
	"strings"
)

// Field is one labelled value of a text result.
type Field struct {
	Label string
	Value string
}

// Fields renders as "label: value" lines with the values aligned.
type Fields []Field

// Render writes the fields to w. Empty values are skipped.
func (fs Fields) Render(w io.Writer) error {
	width := 0
	for _, f := range fs {
		if f.Value != "" && len(f.Label) > width {
			width = len(f.Label)
		}
	}

	for _, f := range fs {
		if f.Value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width+1, f.Label+":", f.Value); err != nil {
			return err
		}
	}
	return nil
}

// String returns the rendered fields.
func (fs Fields) String() string {
	var sb strings.Builder
	_ = fs.Render(&sb)
	return sb.String()
}
