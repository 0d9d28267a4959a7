// Package advisor turns raw weather facts into advice text. Every function
// is pure and deterministic.
package advisor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sandevgo/tianbot/internal/core"
)

const (
	rainMarker = "雨"

	ClothingNoData    = "【穿衣建议】数据不足，无法生成建议。"
	ClothingNoIndex   = "暂无指数信息"
	OutdoorNoData     = "【户外活动】数据不足。"
	TravelAlertClear  = "【⚠️ 旅行警报】\n🟢 当前地区无气象灾害预警，出行相对安全。"
	PackingNoForecast = "无未来天气数据，无法生成行李清单。"
)

func findIndex(indices []core.LifeIndex, typ string) *core.LifeIndex {
	for i := range indices {
		if indices[i].Type == typ {
			return &indices[i]
		}
	}
	return nil
}

// Clothing reports the dressing index for the current temperature.
// A nil indices slice means the lookup failed; an empty one means no index.
func Clothing(now *core.WeatherNow, indices []core.LifeIndex) string {
	if now == nil || indices == nil {
		return ClothingNoData
	}

	advice := ClothingNoIndex
	if idx := findIndex(indices, core.IndexClothing); idx != nil {
		advice = fmt.Sprintf("%s。%s", idx.Category, idx.Text)
	}

	return fmt.Sprintf("【👔 穿衣建议】\n当前气温 %s°C。\n建议：%s", now.Temp, advice)
}

// Outdoor rates outdoor activities. Rain overrides the sport index; UV
// commentary is appended either way.
func Outdoor(now *core.WeatherNow, indices []core.LifeIndex) string {
	if now == nil || indices == nil {
		return OutdoorNoData
	}

	var b strings.Builder
	b.WriteString("【🏃 户外活动】\n")

	if strings.Contains(now.Text, rainMarker) {
		fmt.Fprintf(&b, "🚫 正在下雨（%s），不建议进行户外高强度活动。", now.Text)
	} else {
		category, text := "未知", ""
		if sport := findIndex(indices, core.IndexSport); sport != nil {
			if sport.Category != "" {
				category = sport.Category
			}
			text = sport.Text
		}
		fmt.Fprintf(&b, "适宜度：%s。\n%s", category, text)
	}

	if uv := findIndex(indices, core.IndexUV); uv != nil {
		fmt.Fprintf(&b, "\n☀️ 紫外线强度：%s，%s", uv.Category, uv.Text)
	}

	return b.String()
}

// TravelAlert lists every active warning, or reports that there are none.
func TravelAlert(warnings []core.WeatherWarning) string {
	if len(warnings) == 0 {
		return TravelAlertClear
	}

	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		level := w.Level
		if level == "" {
			level = w.Severity
		}
		lines = append(lines, fmt.Sprintf("🔴 %s%s预警：%s", w.TypeName, level, w.Text))
	}

	return fmt.Sprintf("【⚠️ 旅行警报】\n发现 %d 条生效预警，请注意安全：\n%s", len(warnings), strings.Join(lines, "\n"))
}

// PackingContext summarizes the forecast window for a downstream packing
// list generator. It does not list items itself.
func PackingContext(daily []core.DailyForecast, prefs string) string {
	var temps []int
	hasRain := false
	for _, d := range daily {
		// Fractional readings truncate toward zero.
		if t, err := strconv.ParseFloat(strings.TrimSpace(d.TempMax), 64); err == nil && !math.IsNaN(t) && !math.IsInf(t, 0) {
			temps = append(temps, int(t))
		}
		if strings.Contains(d.TextDay, rainMarker) {
			hasRain = true
		}
	}
	if len(temps) == 0 {
		return PackingNoForecast
	}

	minTemp, maxTemp := temps[0], temps[0]
	for _, t := range temps[1:] {
		minTemp = min(minTemp, t)
		maxTemp = max(maxTemp, t)
	}

	rain := "基本无雨"
	if hasRain {
		rain = "会有降雨，必须携带雨具"
	}
	if prefs == "" {
		prefs = "无特殊偏好"
	}

	return fmt.Sprintf(`
【🧳 行李清单生成上下文】
- 天气概况：未来几天气温在 %d°C 到 %d°C 之间。
- 降水情况：%s。
- 用户偏好：%s
请根据以上信息为用户生成一份详细的个性化行李清单。
`, minTemp, maxTemp, rain, prefs)
}
