package advisor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/tianbot/internal/core"
)

// Conditions are the parsed facts a guide rule matches on.
type Conditions struct {
	Temp      float64
	HasTemp   bool
	Text      string
	WindScale int
}

// ParseConditions reads the numeric fields of a snapshot. Wind scale may be
// a range like "4-5"; the upper bound wins.
func ParseConditions(now *core.WeatherNow) Conditions {
	if now == nil {
		return Conditions{}
	}

	c := Conditions{Text: now.Text}
	if t, err := strconv.ParseFloat(strings.TrimSpace(now.Temp), 64); err == nil {
		c.Temp, c.HasTemp = t, true
	}
	for _, part := range strings.Split(now.WindScale, "-") {
		if w, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && w > c.WindScale {
			c.WindScale = w
		}
	}
	return c
}

type Rule struct {
	Name   string
	Match  func(c Conditions) bool
	Advice string
}

func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "freezing",
			Match:  func(c Conditions) bool { return c.HasTemp && c.Temp <= 0 },
			Advice: "气温在冰点以下，注意防寒保暖，外出佩戴帽子和手套。",
		},
		{
			Name:   "cold",
			Match:  func(c Conditions) bool { return c.HasTemp && c.Temp > 0 && c.Temp <= 10 },
			Advice: "天气较冷，建议穿厚外套或羽绒服。",
		},
		{
			Name:   "hot",
			Match:  func(c Conditions) bool { return c.HasTemp && c.Temp >= 30 },
			Advice: "天气炎热，注意防暑降温，多补充水分。",
		},
		{
			Name:   "rain",
			Match:  func(c Conditions) bool { return strings.Contains(c.Text, rainMarker) },
			Advice: "有降雨，出门记得带伞。",
		},
		{
			Name:   "snow",
			Match:  func(c Conditions) bool { return strings.Contains(c.Text, "雪") },
			Advice: "有降雪，路面湿滑，注意出行安全。",
		},
		{
			Name:   "wind",
			Match:  func(c Conditions) bool { return c.WindScale >= 5 },
			Advice: "风力较大，注意防风，远离广告牌等高空物体。",
		},
		{
			Name: "haze",
			Match: func(c Conditions) bool {
				return strings.Contains(c.Text, "雾") || strings.Contains(c.Text, "霾")
			},
			Advice: "能见度较低，驾车请减速慢行，敏感人群减少外出。",
		},
	}
}

// Guide returns the advice of every matching rule, one per line, in rule order.
func Guide(now *core.WeatherNow, rules []Rule) string {
	c := ParseConditions(now)

	var matched []string
	for _, r := range rules {
		if r.Match(c) {
			matched = append(matched, r.Advice)
		}
	}
	return strings.Join(matched, "\n")
}

// WeatherContext formats current conditions as a prompt block.
func WeatherContext(city string, now *core.WeatherNow) string {
	if now == nil {
		return ""
	}
	return fmt.Sprintf(`
【当前%s天气】
- 状况: %s
- 温度: %s°C (体感 %s°C)
- 风力: %s级
- 湿度: %s%%
- 能见度: %s公里
`, city, now.Text, now.Temp, now.FeelsLike, now.WindScale, now.Humidity, now.Vis)
}
