package render

import (
	"fmt"
	"io"
	"strings"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	// Body is prerendered markup placed inside the root container.
	Body string

	// RootID is the id of the root container. Defaults to "root".
	RootID string

	// SessionID identifies the live session the page connects to.
	SessionID string

	// LivePath is the WebSocket endpoint. Defaults to "/live".
	LivePath string
}

// RenderPage writes a complete HTML document around page.Body.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if page.Lang == "" {
		page.Lang = "en"
	}
	if page.RootID == "" {
		page.RootID = "root"
	}
	if page.LivePath == "" {
		page.LivePath = "/live"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html")
	WriteAttr(&b, "lang", page.Lang)
	b.WriteString("><head><meta charset=\"utf-8\">")
	if page.Title != "" {
		b.WriteString("<title>")
		b.WriteString(EscapeText(page.Title))
		b.WriteString("</title>")
	}
	b.WriteString("</head><body><div")
	WriteAttr(&b, "id", page.RootID)
	if page.SessionID != "" {
		WriteAttr(&b, "data-session", page.SessionID)
	}
	b.WriteString(">")
	b.WriteString(page.Body)
	b.WriteString("</div>")
	if page.SessionID != "" {
		fmt.Fprintf(&b, "<script>window.__vtree={session:%q,live:%q};</script>",
			page.SessionID, page.LivePath)
	}
	b.WriteString("</body></html>")

	_, err := io.WriteString(w, b.String())
	return err
}
