// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WaybarOutput is the JSON object waybar expects from a custom module.
type WaybarOutput struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

// Waybar exports a page as a single waybar JSON line.
type Waybar struct {
	templates *Templates
}

func NewWaybar(templates *Templates) (*Waybar, error) {
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}
	return &Waybar{templates: templates}, nil
}

func (w *Waybar) Export(out io.Writer, in Input) error {
	data := NewDisplayData(in)

	textBuf := bytes.NewBuffer(nil)
	if err := w.templates.Text.Execute(textBuf, data); err != nil {
		return fmt.Errorf("failed to render text template: %w", err)
	}
	tooltipBuf := bytes.NewBuffer(nil)
	if err := w.templates.Tooltip.Execute(tooltipBuf, data); err != nil {
		return fmt.Errorf("failed to render tooltip template: %w", err)
	}

	output := WaybarOutput{
		Text:    textBuf.String(),
		Tooltip: tooltipBuf.String(),
		Class:   data.Class,
	}
	if err := json.NewEncoder(out).Encode(output); err != nil {
		return fmt.Errorf("failed to encode waybar output: %w", err)
	}
	return nil
}
