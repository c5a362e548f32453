// Package views holds the HTML templates, embedded into the binary.
package views

import "embed"

//go:embed *.html
var TemplatesFS embed.FS
