package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ModuleScript is a client module injected into the document together
// with its per-render nonce.
type ModuleScript struct {
	Src   string
	Nonce string
}

// DocumentData is the input of the template collaborator: the rendered
// outlet plus everything needed to assemble the document shell.
type DocumentData struct {
	Outlet        io.Reader
	Styles        []string
	ModuleScripts []ModuleScript
	Lang          string
	Meta          Meta
	ImportMap     json.RawMessage
}

// DocumentTemplate wraps an outlet with document scaffolding and
// returns the renderable HTML stream.
type DocumentTemplate func(data DocumentData) (io.Reader, error)

// DefaultDocument is the built-in document template.
func DefaultDocument(data DocumentData) (io.Reader, error) {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n")
	buf.WriteString(`<html lang="` + escapeAttr(data.Lang) + "\">\n")

	writeHead(&buf, data)

	buf.WriteString("<body>\n")
	if data.Outlet != nil {
		if _, err := io.Copy(&buf, data.Outlet); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("</body>\n</html>\n")

	return &buf, nil
}

func writeHead(buf *bytes.Buffer, data DocumentData) {
	buf.WriteString("<head>\n")
	buf.WriteString("  <meta charset=\"utf-8\">\n")
	buf.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")

	if data.Meta.Title != "" {
		fmt.Fprintf(buf, "  <title>%s</title>\n", escapeHTML(data.Meta.Title))
	}
	if data.Meta.Description != "" {
		buf.WriteString(`  <meta name="description" content="` + escapeAttr(data.Meta.Description) + "\">\n")
	}
	for _, meta := range data.Meta.Meta {
		writeMetaTag(buf, meta)
	}
	for _, link := range data.Meta.Links {
		writeLinkTag(buf, link)
	}

	for _, style := range data.Styles {
		fmt.Fprintf(buf, "  <style>%s</style>\n", style)
	}

	if len(data.ImportMap) > 0 {
		fmt.Fprintf(buf, "  <script type=\"importmap\">%s</script>\n", data.ImportMap)
	}
	for _, script := range data.ModuleScripts {
		buf.WriteString(`  <script type="module" src="` + escapeAttr(script.Src) +
			`" nonce="` + escapeAttr(script.Nonce) + "\"></script>\n")
	}

	buf.WriteString("</head>\n")
}

func writeMetaTag(buf *bytes.Buffer, meta MetaTag) {
	buf.WriteString("  <meta")
	writeAttr(buf, "charset", meta.Charset)
	writeAttr(buf, "name", meta.Name)
	writeAttr(buf, "property", meta.Property)
	writeAttr(buf, "http-equiv", meta.HTTPEquiv)
	writeAttr(buf, "content", meta.Content)
	buf.WriteString(">\n")
}

func writeLinkTag(buf *bytes.Buffer, link LinkTag) {
	buf.WriteString("  <link")
	writeAttr(buf, "rel", link.Rel)
	writeAttr(buf, "href", link.Href)
	writeAttr(buf, "type", link.Type)
	writeAttr(buf, "sizes", link.Sizes)
	writeAttr(buf, "crossorigin", link.CrossOrigin)
	writeAttr(buf, "media", link.Media)
	buf.WriteString(">\n")
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(" " + name + `="` + escapeAttr(value) + `"`)
}
