// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"embed"
	"fmt"
	htmltpl "html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

const (
	pageTemplate = "templates/page.html.tmpl"
	mimeHTML     = "text/html"
	mimeCSS      = "text/css"
)

//go:embed templates/*
var pageFS embed.FS

// HTML exports a page as a self-contained HTML document. The region names of the page are
// used as element IDs.
type HTML struct {
	tpl      *htmltpl.Template
	minifier *minify.M
}

func NewHTML(minified bool) (*HTML, error) {
	tpl, err := htmltpl.New("page.html.tmpl").Funcs(sprig.FuncMap()).ParseFS(pageFS, pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	exporter := &HTML{tpl: tpl}
	if minified {
		exporter.minifier = minify.New()
		exporter.minifier.AddFunc(mimeHTML, html.Minify)
		exporter.minifier.AddFunc(mimeCSS, css.Minify)
	}
	return exporter, nil
}

func (h *HTML) Export(out io.Writer, in Input) error {
	buf := bytes.NewBuffer(nil)
	if err := h.tpl.Execute(buf, NewDisplayData(in)); err != nil {
		return fmt.Errorf("failed to render page template: %w", err)
	}

	if h.minifier == nil {
		if _, err := buf.WriteTo(out); err != nil {
			return fmt.Errorf("failed to write page: %w", err)
		}
		return nil
	}
	if err := h.minifier.Minify(mimeHTML, out, buf); err != nil {
		return fmt.Errorf("failed to minify page: %w", err)
	}
	return nil
}
