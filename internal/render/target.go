// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package render

// Region names a display region of the widget layout.
type Region string

const (
	RegionCurrentTemperature   Region = "current-temperature"
	RegionCurrentWindSpeed     Region = "current-wind-speed"
	RegionCurrentWindDirection Region = "current-wind-direction"
	RegionWeatherDescription   Region = "weather-description"
	RegionWeatherTimestamp     Region = "weather-timestamp"
	RegionHumidity             Region = "humidity"
	RegionPressure             Region = "pressure"
	RegionDewPoint             Region = "dew-point"
	RegionCloudCover           Region = "cloud-cover"
	RegionHourlyForecast       Region = "hourly-forecast-scroll"
	RegionUVIndex              Region = "uv-index"
	RegionAppContainer         Region = "app-container"
)

// TextRegions lists the regions that hold a single line of text, in layout order.
var TextRegions = []Region{
	RegionCurrentTemperature, RegionCurrentWindSpeed, RegionCurrentWindDirection,
	RegionWeatherDescription, RegionWeatherTimestamp, RegionHumidity, RegionPressure,
	RegionDewPoint, RegionCloudCover, RegionUVIndex,
}

// Target is the surface the Renderer writes to. Implementations must accept any Region and
// must not fail; a surface that cannot show a region ignores it.
type Target interface {
	SetText(region Region, text string)
	SetImage(region Region, ref string)
	ClearChildren(region Region)
	AppendChild(region Region, child Element)
}

// Element is a child entry of a container region, e.g. one hour of the forecast strip.
type Element struct {
	Class string
	Cells []Cell
}

type Cell struct {
	Class string
	Text  string
}
