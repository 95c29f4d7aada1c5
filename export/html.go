package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	"github.com/pthm-cable/flowstudio/params"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  html, body { margin: 0; height: 100%; background: {{.Background}}; }
  body { display: flex; align-items: center; justify-content: center; }
  svg { max-width: 100vmin; max-height: 100vmin; height: auto; }
</style>
</head>
<body>
{{.SVG}}
<script type="application/json" id="params">{{.Params}}</script>
</body>
</html>
`))

type pageData struct {
	Title      string
	Background template.CSS
	SVG        template.HTML
	Params     template.JS
}

// HTML writes a standalone page holding the frame as inline SVG and the
// parameter set that produced it as a JSON block.
func HTML(w io.Writer, title string, width, height int, p params.Params, draw DrawFunc) error {
	var svgBuf bytes.Buffer
	if err := SVG(&svgBuf, width, height, draw); err != nil {
		return err
	}
	js, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("export html: encoding params: %w", err)
	}

	data := pageData{
		Title:      title,
		Background: template.CSS(p.BackgroundColor.Hex()),
		SVG:        template.HTML(stripProlog(svgBuf.Bytes())),
		Params:     template.JS(js),
	}
	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("export html: %w", err)
	}
	slog.Info("exported html", "title", title, "width", width, "height", height)
	return nil
}

// stripProlog drops the XML declaration, which is invalid inside HTML.
func stripProlog(doc []byte) []byte {
	if bytes.HasPrefix(doc, []byte("<?xml")) {
		if i := bytes.Index(doc, []byte("?>")); i >= 0 {
			return bytes.TrimLeft(doc[i+2:], "\r\n")
		}
	}
	return doc
}
