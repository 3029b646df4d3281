package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// FormTemplate is the entry template rendered for every frame.
const FormTemplate = "form.tpl"

// TemplatesFS exposes the embedded template bundle so callers can copy it as
// a starting point for their own markup.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
