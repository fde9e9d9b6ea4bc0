package pipeline

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/docshape/ocrprep/internal/assets"
)

// shellTemplate is parsed once; the embedded template is fixed at build
// time, so a parse failure is a programmer error.
var shellTemplate = template.Must(template.New("shell").Parse(assets.ShellTemplate()))

// shellData feeds the document shell template. Style and Body bypass
// contextual escaping: the stylesheet is an embedded asset and the body is
// already-escaped pipeline output.
type shellData struct {
	Style template.CSS
	Body  template.HTML
}

// BuildDocument wraps an HTML fragment in the document shell with the given
// stylesheet. An empty css falls back to the embedded reading stylesheet.
func BuildDocument(bodyHTML, css string) (string, error) {
	if css == "" {
		css = assets.DocumentStyle()
	}

	var b strings.Builder
	err := shellTemplate.Execute(&b, shellData{
		Style: template.CSS(css),
		Body:  template.HTML(bodyHTML), // #nosec G203 -- body is pipeline output, math content already escaped
	})
	if err != nil {
		return "", fmt.Errorf("rendering document shell: %w", err)
	}
	return b.String(), nil
}
