package web

import "embed"

// Templates holds the dashboard pages and their layout.
//
//go:embed templates
var Templates embed.FS

// Static holds the browser assets served under /static.
//
//go:embed static
var Static embed.FS
