// Package web provides the embedded storefront assets served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree (stylesheet and the quote
// cart script).
//
//go:embed all:static
var StaticFS embed.FS
