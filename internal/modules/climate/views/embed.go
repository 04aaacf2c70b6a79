package views

import "embed"

//go:embed templates/*.txt
var viewsFS embed.FS
