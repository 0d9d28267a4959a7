package core

// Weather facts as reported by QWeather. Numeric fields stay strings, the
// way the API returns them.

type Location struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Adm1    string `json:"adm1,omitempty"`
	Adm2    string `json:"adm2,omitempty"`
	Country string `json:"country,omitempty"`
	Lat     string `json:"lat,omitempty"`
	Lon     string `json:"lon,omitempty"`
}

type WeatherNow struct {
	ObsTime   string `json:"obsTime,omitempty"`
	Temp      string `json:"temp"`
	FeelsLike string `json:"feelsLike,omitempty"`
	Text      string `json:"text"`
	WindDir   string `json:"windDir,omitempty"`
	WindScale string `json:"windScale,omitempty"`
	Humidity  string `json:"humidity,omitempty"`
	Precip    string `json:"precip,omitempty"`
	Vis       string `json:"vis,omitempty"`
}

type DailyForecast struct {
	FxDate    string `json:"fxDate"`
	TempMax   string `json:"tempMax"`
	TempMin   string `json:"tempMin"`
	TextDay   string `json:"textDay"`
	TextNight string `json:"textNight,omitempty"`
	UVIndex   string `json:"uvIndex,omitempty"`
}

// Life index types requested from the indices endpoint.
const (
	IndexSport    = "1"
	IndexClothing = "3"
	IndexUV       = "5"
)

type LifeIndex struct {
	Date     string `json:"date,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

type WeatherWarning struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	TypeName string `json:"typeName"`
	Level    string `json:"level"`
	Severity string `json:"severity,omitempty"`
	Text     string `json:"text"`
}

// WeatherSnapshot bundles everything fetch_weather_data reports for one city.
type WeatherSnapshot struct {
	Location string           `json:"location"`
	Now      *WeatherNow      `json:"now"`
	Daily    []DailyForecast  `json:"daily"`
	Indices  []LifeIndex      `json:"indices"`
	Warning  []WeatherWarning `json:"warning"`
}
