// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"text/template"
	"time"

	"github.com/vorlif/humanize"
)

// Presenter provides the template functions that need a locale.
type Presenter struct {
	humanizer *humanize.Humanizer
}

func New(humanizer *humanize.Humanizer) *Presenter {
	return &Presenter{humanizer: humanizer}
}

// LocalizedTime formats the wall clock time of val in the locale of the humanizer.
func (p *Presenter) LocalizedTime(val time.Time) string {
	if p.humanizer == nil {
		return val.Format("15:04")
	}
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func (p *Presenter) TemplateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"localizedTime": p.LocalizedTime,
		"floatFormat":   FloatFormat,
		"windDir":       WindDirectionToText,
		"windDirIcon":   WindDirectionIcon,
		"weatherIcon":   WeatherIcon,
		"description":   WeatherCodeToDescription,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}
