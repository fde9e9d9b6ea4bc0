// Package assets provides the embedded display assets for rendered
// documents: the reading stylesheet and the HTML shell that configures the
// math renderer.
package assets

import (
	"embed"
)

//go:embed styles/*
var styles embed.FS

//go:embed templates/*
var templates embed.FS

// DocumentStyle returns the default reading stylesheet.
func DocumentStyle() string {
	content, err := styles.ReadFile("styles/document.css")
	if err != nil {
		// Embedded at build time; absence is a programmer error.
		panic("assets: missing embedded document stylesheet: " + err.Error())
	}
	return string(content)
}

// ShellTemplate returns the HTML document shell. The shell declares the
// MathJax delimiter configuration matching exactly the two span forms the
// extraction phase recognizes; a mismatch silently breaks all math
// rendering.
func ShellTemplate() string {
	content, err := templates.ReadFile("templates/shell.html")
	if err != nil {
		panic("assets: missing embedded shell template: " + err.Error())
	}
	return string(content)
}
