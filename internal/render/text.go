package render

import (
	"bufio"
	"io"
	"strings"
)

// WriteText prints the page as plain text, one paragraph per place.
func (p Page) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if p.Error != "" {
		bw.WriteString(p.Error + "\n")
		return bw.Flush()
	}
	if p.Advisory != "" {
		bw.WriteString(p.Advisory + "\n\n")
	}
	for _, b := range p.Blocks {
		bw.WriteString(b.Name)
		if b.Stars != nil {
			bw.WriteString(" " + b.Stars.Label)
		}
		bw.WriteString("\n")

		if len(b.Links) > 0 {
			parts := make([]string, len(b.Links))
			for i, l := range b.Links {
				parts[i] = l.Label + ": " + l.URL
			}
			bw.WriteString("  " + strings.Join(parts, ", ") + "\n")
		} else {
			bw.WriteString("  " + b.Fallback + "\n")
		}
		if b.Phone != nil {
			bw.WriteString("  " + PhonePrefix + b.Phone.Display + "\n")
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
