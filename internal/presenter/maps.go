// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

// WMOWeatherCodes maps the WMO weather codes the widget knows about to their descriptions
var WMOWeatherCodes = map[int]string{
	0:  "Bezchmurnie",
	1:  "Częściowo pochmurno",
	2:  "Pochmurno",
	3:  "Zachmurzenie duże",
	45: "Mgła",
	48: "Osadzająca się mgła",
	51: "Mżawka lekka",
	53: "Mżawka",
	55: "Mżawka intensywna",
	61: "Deszcz lekki",
	63: "Deszcz",
	65: "Deszcz intensywny",
	80: "Przelotne opady",
	95: "Burza",
	99: "Burza z gradem",
}

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// compass labels, clockwise from north in 45° steps
var windDirections = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

var windDirIcons = map[string]string{
	"N":  "↑",
	"NE": "↗",
	"E":  "→",
	"SE": "↘",
	"S":  "↓",
	"SW": "↙",
	"W":  "←",
	"NW": "↖",
}
