// Package web embeds the HTML templates rendered into PDF reports.
package web

import "embed"

// Templates embeds the report templates.
//
//go:embed templates/reports/*.html
var Templates embed.FS
