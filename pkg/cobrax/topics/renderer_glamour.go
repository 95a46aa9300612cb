package topics

import (
	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with the glamour library.
// Non-markdown content passes through unchanged.
type GlamourRenderer struct {
	// Style is the glamour style name. Empty selects the automatic
	// light/dark style.
	Style string

	// Width is the word-wrap width. Zero means 80.
	Width int
}

// Render renders markdown content to styled terminal output. On any
// rendering error the raw content is returned so help stays readable.
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	width := r.Width
	if width == 0 {
		width = 80
	}

	var opts []glamour.TermRendererOption
	if r.Style != "" {
		opts = append(opts, glamour.WithStylePath(r.Style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	opts = append(opts, glamour.WithWordWrap(width))

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
