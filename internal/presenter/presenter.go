// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter translates raw weather values into the text, icons and background images
// shown by the widget. All functions are pure and total.
package presenter

import (
	"fmt"
	"math"
	"strings"

	"github.com/wneessen/weather-widget/internal/vartype"
)

const (
	// Placeholder is shown for every value that is not available.
	Placeholder = vartype.Unset

	// UnknownWeather is the description of codes missing from WMOWeatherCodes.
	UnknownWeather = "Nieznana pogoda"

	// RainIcon replaces the weather icon of an hour with precipitation.
	RainIcon = "🌧️"

	IconClear        = "☀️"
	IconPartlyCloudy = "🌤️"
	IconOvercast     = "☁️"
	IconFog          = "🌫️"
	IconRain         = "🌧️"
	IconStorm        = "🌩️"
	IconUnknown      = "❓"
)

// Background is the image shown behind the widget for a weather category.
type Background struct {
	Name string
	Ext  string
}

var (
	BackgroundSunny        = Background{Name: "sunny", Ext: "jpg"}
	BackgroundPartlyCloudy = Background{Name: "partly-cloudy", Ext: "webp"}
	BackgroundCloudy       = Background{Name: "cloudy", Ext: "jpg"}
	BackgroundRain         = Background{Name: "rain", Ext: "jpg"}
	BackgroundStorm        = Background{Name: "storm", Ext: "jpg"}
	BackgroundDefault      = Background{Name: "default", Ext: "jpg"}
)

// File returns the image reference below the base directory.
func (b Background) File(base string) string {
	file := b.Name + "." + b.Ext
	base = strings.TrimRight(base, "/")
	if base == "" {
		return file
	}
	return base + "/" + file
}

// WindDirectionToText maps a bearing in degrees to one of 8 compass labels. The bearing is
// divided by 45 and rounded half away from zero, so 22.5° is NE. Negative bearings and
// bearings above 360° wrap around.
func WindDirectionToText(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return Placeholder
	}
	idx := math.Mod(math.Round(deg/45), 8)
	if idx < 0 {
		idx += 8
	}
	return windDirections[int(idx)]
}

// WindDirectionIcon returns an arrow for a compass label as returned by WindDirectionToText.
func WindDirectionIcon(dir string) string {
	if icon, ok := windDirIcons[dir]; ok {
		return icon
	}
	return Placeholder
}

func WeatherCodeToDescription(code int) string {
	if desc, ok := WMOWeatherCodes[code]; ok {
		return desc
	}
	return UnknownWeather
}

// WeatherIcon classifies a weather code into an icon. The first matching range wins.
func WeatherIcon(code int) string {
	switch {
	case code == 0:
		return IconClear
	case code == 1 || code == 2:
		return IconPartlyCloudy
	case code == 3:
		return IconOvercast
	case code >= 45 && code <= 48:
		return IconFog
	case code >= 51 && code <= 65:
		return IconRain
	case code >= 95:
		return IconStorm
	default:
		return IconUnknown
	}
}

// WeatherBackground classifies a weather code into a background image. Its ranges are
// coarser than the ones of WeatherIcon: everything from 3 to 49 is cloudy.
func WeatherBackground(code int) Background {
	switch {
	case code == 0:
		return BackgroundSunny
	case code == 1 || code == 2:
		return BackgroundPartlyCloudy
	case code >= 3 && code < 50:
		return BackgroundCloudy
	case code >= 51 && code <= 65:
		return BackgroundRain
	case code >= 95:
		return BackgroundStorm
	default:
		return BackgroundDefault
	}
}

// FloatFormat rounds val half away from zero to precision decimals. Non-finite values
// return the Placeholder.
func FloatFormat(val float64, precision int) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return Placeholder
	}
	if precision < 0 {
		precision = 0
	}
	pow := math.Pow(10, float64(precision))
	rounded := math.Round(val*pow) / pow
	if rounded == 0 {
		// avoid "-0"
		rounded = 0
	}
	return fmt.Sprintf("%.*f", precision, rounded)
}

// Format renders an optional value with precision decimals into layout, which must contain
// exactly one %s verb. Unset values render as the Placeholder without the layout.
func Format(val vartype.VarFloat64, precision int, layout string) string {
	return val.Format(func(v float64) string {
		text := FloatFormat(v, precision)
		if text == Placeholder {
			return text
		}
		return fmt.Sprintf(layout, text)
	})
}
