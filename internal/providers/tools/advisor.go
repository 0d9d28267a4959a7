package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sandevgo/tianbot/internal/core"
	"github.com/sandevgo/tianbot/internal/service/advisor"
)

// Advisor exposes the rule-based advisors as tools. Models pass loosely
// typed JSON, so records are decoded field by field.
type Advisor struct{}

func NewAdvisor() *Advisor {
	return &Advisor{}
}

type looseRecords []map[string]any

func (l looseRecords) str(i int, key string) string {
	v, ok := l[i][key]
	if !ok || v == nil {
		return ""
	}
	return looseString(v)
}

func looseString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func decodeRecords(raw json.RawMessage) (looseRecords, error) {
	var recs looseRecords
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = looseRecords{}
	}
	return recs, nil
}

func decodeIndices(raw json.RawMessage) ([]core.LifeIndex, error) {
	recs, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid indices: %w", err)
	}
	out := make([]core.LifeIndex, len(recs))
	for i := range recs {
		out[i] = core.LifeIndex{
			Date:     recs.str(i, "date"),
			Type:     recs.str(i, "type"),
			Name:     recs.str(i, "name"),
			Level:    recs.str(i, "level"),
			Category: recs.str(i, "category"),
			Text:     recs.str(i, "text"),
		}
	}
	return out, nil
}

func decodeWarnings(raw json.RawMessage) ([]core.WeatherWarning, error) {
	recs, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid warnings: %w", err)
	}
	out := make([]core.WeatherWarning, len(recs))
	for i := range recs {
		out[i] = core.WeatherWarning{
			ID:       recs.str(i, "id"),
			Title:    recs.str(i, "title"),
			TypeName: recs.str(i, "typeName"),
			Level:    recs.str(i, "level"),
			Severity: recs.str(i, "severity"),
			Text:     recs.str(i, "text"),
		}
	}
	return out, nil
}

func decodeDaily(raw json.RawMessage) ([]core.DailyForecast, error) {
	recs, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid daily forecast: %w", err)
	}
	out := make([]core.DailyForecast, len(recs))
	for i := range recs {
		out[i] = core.DailyForecast{
			FxDate:    recs.str(i, "fxDate"),
			TempMax:   recs.str(i, "tempMax"),
			TempMin:   recs.str(i, "tempMin"),
			TextDay:   recs.str(i, "textDay"),
			TextNight: recs.str(i, "textNight"),
			UVIndex:   recs.str(i, "uvIndex"),
		}
	}
	return out, nil
}

type nowArgs struct {
	Temp    any             `json:"temp"`
	Text    string          `json:"text"`
	Indices json.RawMessage `json:"indices"`
}

func (a *Advisor) ClothingAdvice(ctx context.Context, args json.RawMessage) (string, error) {
	var in nowArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	indices, err := decodeIndices(in.Indices)
	if err != nil {
		return "", err
	}

	now := &core.WeatherNow{Text: in.Text}
	if in.Temp != nil {
		now.Temp = looseString(in.Temp)
	}
	return advisor.Clothing(now, indices), nil
}

func (a *Advisor) OutdoorAdvice(ctx context.Context, args json.RawMessage) (string, error) {
	var in nowArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	indices, err := decodeIndices(in.Indices)
	if err != nil {
		return "", err
	}
	return advisor.Outdoor(&core.WeatherNow{Text: in.Text}, indices), nil
}

func (a *Advisor) TravelAlert(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Warnings json.RawMessage `json:"warnings"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	warnings, err := decodeWarnings(in.Warnings)
	if err != nil {
		return "", err
	}
	return advisor.TravelAlert(warnings), nil
}

func (a *Advisor) PackingContext(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Daily       json.RawMessage `json:"daily"`
		Preferences string          `json:"preferences"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	daily, err := decodeDaily(in.Daily)
	if err != nil {
		return "", err
	}
	return advisor.PackingContext(daily, in.Preferences), nil
}

func (a *Advisor) Descriptors() []Descriptor {
	indices := Param{Name: "indices", Type: TypeArray, Description: "生活指数数组", Required: true}
	text := Param{Name: "text", Type: TypeString, Description: "天气状况描述", Required: true}
	return []Descriptor{
		{
			Name:        "get_clothing_advice",
			Description: "根据实时天气数据生成穿衣建议。需传入 fetch_weather_data 返回的 now 和 indices 数据。",
			Params: []Param{
				// temp arrives as "23" or 23 depending on the model
				{Name: "temp", Description: "当前温度", Required: true},
				text,
				indices,
			},
			Handler: a.ClothingAdvice,
		},
		{
			Name:        "get_outdoor_activity_advice",
			Description: "评估户外活动适宜度。需传入 fetch_weather_data 返回的 now 和 indices 数据。",
			Params:      []Param{text, indices},
			Handler:     a.OutdoorAdvice,
		},
		{
			Name:        "get_travel_alert",
			Description: "根据气象预警生成旅行安全提示。需传入 fetch_weather_data 返回的 warning 数组。",
			Params: []Param{
				{Name: "warnings", Type: TypeArray, Description: "气象预警数组", Required: true},
			},
			Handler: a.TravelAlert,
		},
		{
			Name:        "get_packing_context",
			Description: "根据未来几天的天气预报和用户偏好整理行李清单所需的信息。需传入 fetch_weather_data 返回的 daily 数组。",
			Params: []Param{
				{Name: "daily", Type: TypeArray, Description: "7天预报数组", Required: true},
				{Name: "preferences", Type: TypeString, Description: "用户偏好，可从 search_user_memories 获得"},
			},
			Handler: a.PackingContext,
		},
	}
}
