package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/providers/weather"
	"github.com/sandevgo/tianbot/internal/service/advisor"
)

// WeatherSource is the part of the QWeather client the tools rely on.
type WeatherSource interface {
	LookupCity(ctx context.Context, name string) *core.Location
	Now(ctx context.Context, locationID string) *core.WeatherNow
	Snapshot(ctx context.Context, city string) (*core.WeatherSnapshot, error)
}

type Weather struct {
	source WeatherSource
}

func NewWeather(source WeatherSource) *Weather {
	return &Weather{source: source}
}

type cityArgs struct {
	City string `json:"city"`
}

func (w *Weather) FetchWeatherData(ctx context.Context, args json.RawMessage) (string, error) {
	var in cityArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	snap, err := w.source.Snapshot(ctx, in.City)
	if errors.Is(err, weather.ErrCityNotFound) {
		return "未找到城市：" + in.City, nil
	}
	if err != nil {
		return "获取天气失败: " + err.Error(), nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "获取天气失败: " + err.Error(), nil
	}
	return string(data), nil
}

func (w *Weather) WeatherGuide(ctx context.Context, args json.RawMessage) (string, error) {
	var in cityArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	loc := w.source.LookupCity(ctx, in.City)
	if loc == nil {
		return "未找到城市：" + in.City, nil
	}
	now := w.source.Now(ctx, loc.ID)
	if now == nil {
		return "获取天气失败: 无实时天气数据", nil
	}

	out := strings.TrimSpace(advisor.WeatherContext(loc.Name, now))
	if guide := advisor.Guide(now, advisor.DefaultRules()); guide != "" {
		out += "\n【出行指南】\n" + guide
	}
	return out, nil
}

func (w *Weather) Descriptors() []Descriptor {
	city := Param{Name: "city", Type: TypeString, Description: `城市名称，如"北京"、"上海"`, Required: true}
	return []Descriptor{
		{
			Name:        "fetch_weather_data",
			Description: "获取指定城市的全面天气数据，包括实时天气、7天预报、生活指数和气象预警。在回答天气相关问题或生成建议前必须先调用此工具。",
			Params:      []Param{city},
			Handler:     w.FetchWeatherData,
		},
		{
			Name:        "get_weather_guide",
			Description: "获取指定城市的实时天气概况和基于天气规则的出行提示（低温、高温、降雨、降雪、大风、雾霾）。",
			Params:      []Param{city},
			Handler:     w.WeatherGuide,
		},
	}
}
