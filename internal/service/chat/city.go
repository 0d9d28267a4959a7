package chat

import (
	"regexp"
	"strings"
)

var (
	knownCityRe  = regexp.MustCompile(`北京|上海|广州|深圳|杭州|成都|重庆|天津|苏州|西安|武汉|南京|长沙|郑州|青岛|大连|厦门|宁波`)
	suffixCityRe = regexp.MustCompile(`\p{Han}{1,4}?[市县]`)
)

// leading characters that belong to the sentence rather than the place name
const cityNoise = "我想要去到在的是从往回看查问下"

// ExtractCity finds a city mention in text. Well-known cities win; otherwise
// a short name ending in 市 or 县 is accepted.
func ExtractCity(text string) string {
	if m := knownCityRe.FindString(text); m != "" {
		return m
	}
	for _, m := range suffixCityRe.FindAllString(text, -1) {
		name := strings.TrimLeft(m, cityNoise)
		if len([]rune(name)) >= 2 {
			return name
		}
	}
	return ""
}
