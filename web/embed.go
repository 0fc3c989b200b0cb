// Package web embeds the page templates and static assets of the front end.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		// Only fails for an invalid path, which the embed directive rules out.
		panic(err)
	}
	return f
}

// StaticFS returns the stylesheet and images served under /static/.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the HTML templates.
func TemplatesFS() fs.FS { return sub("templates") }
