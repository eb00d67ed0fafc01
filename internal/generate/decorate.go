package generate

// Decorate wraps article HTML in the layout container used by the
// rendered page.
func Decorate(html string) string {
	return `<div class="max-w-3xl mx-auto p-4 prose prose-indigo">` + html + `</div>`
}
