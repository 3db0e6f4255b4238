// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/pl"
	"golang.org/x/text/language"
)

const (
	// DefaultLocale is the locale of the widget's literal strings.
	DefaultLocale = "pl"
	// AutoLocale requests detection of the host locale.
	AutoLocale = "auto"
)

var collection = humanize.MustNew(humanize.WithLocale(pl.New()))

// Tag resolves the configured locale. An empty locale or AutoLocale is detected from the host
// environment, falling back to DefaultLocale if that fails.
func Tag(loc string) language.Tag {
	if loc != "" && loc != AutoLocale {
		tag, err := language.Parse(loc)
		if err == nil {
			return tag
		}
	}
	if loc == "" || loc == AutoLocale {
		tag, err := locale.Detect()
		if err == nil {
			return tag
		}
	}
	return language.Make(DefaultLocale)
}

// New returns a humanizer for the given locale, used to format the "last updated" time.
func New(loc string) *humanize.Humanizer {
	return collection.CreateHumanizer(Tag(loc))
}
