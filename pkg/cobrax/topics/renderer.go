package topics

// Renderer formats topic content for display.
type Renderer interface {
	// Render formats content. The format hint is the topic file's
	// extension, e.g. ".md".
	Render(content string, format string) string
}

// PlainRenderer passes content through untouched.
type PlainRenderer struct{}

// Render returns the content as-is.
func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
