package productivity

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/k3a/html2text"
)

// Dimensions is the result of parsing a free-text product description.
// WidthM, HeightM and AreaM2 are nil when the text does not state them.
type Dimensions struct {
	WidthM  *float64
	HeightM *float64
	Copies  int
	AreaM2  *float64
}

const (
	markup = `(?:\s*<[^>]*>)*\s*`
	number = `(\d+(?:[.,]\d+)?)`
	unit   = `(cm|mm|m)?`
)

var (
	widthPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)largura\s*(?:\(m\))?\s*[:=\-]?` + markup + number + markup + unit),
		regexp.MustCompile(`(?i)\bwidth\s*[:=]` + markup + number + markup + unit),
		regexp.MustCompile(`(?i)\blarg\.?\s*[:=]` + markup + number + markup + unit),
	}
	heightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)altura\s*(?:\(m\))?\s*[:=\-]?` + markup + number + markup + unit),
		regexp.MustCompile(`(?i)\bheight\s*[:=]` + markup + number + markup + unit),
		regexp.MustCompile(`(?i)\balt\.?\s*[:=]` + markup + number + markup + unit),
	}
	copiesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)c[oó]pias?\s*[:=]` + markup + `(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s*c[oó]pias?\b`),
		regexp.MustCompile(`(?i)\bcopies\s*[:=]` + markup + `(\d+)`),
	}
	// 3x2m, 300 x 200 cm, 1,5m x 0,8m, 3 x 2 metros, 3x2 mts
	sizePattern = regexp.MustCompile(`(?i)` + number + `\s*(cm|mm|m(?:etros?|ts)?)?\s*[x×]\s*` + number + `\s*(cm|mm|m(?:etros?|ts)?)\b`)
)

func ExtractDimensions(text string) Dimensions {
	dims := extractFrom(text)
	if dims.WidthM == nil || dims.HeightM == nil || dims.Copies == 0 {
		if plain := html2text.HTML2Text(text); plain != text {
			fallback := extractFrom(plain)
			if dims.WidthM == nil {
				dims.WidthM = fallback.WidthM
			}
			if dims.HeightM == nil {
				dims.HeightM = fallback.HeightM
			}
			if dims.Copies == 0 {
				dims.Copies = fallback.Copies
			}
		}
	}
	if dims.Copies <= 0 {
		dims.Copies = 1
	}
	if dims.WidthM != nil && dims.HeightM != nil {
		area := Round2(*dims.WidthM * *dims.HeightM * float64(dims.Copies))
		dims.AreaM2 = &area
	}
	return dims
}

// MergeMissing fills fields of d that are absent using other; used when the
// product name carries the size that the description omits.
func (d Dimensions) MergeMissing(other Dimensions) Dimensions {
	if d.WidthM == nil && d.HeightM == nil {
		d.WidthM = other.WidthM
		d.HeightM = other.HeightM
	}
	if d.WidthM != nil && d.HeightM != nil {
		area := Round2(*d.WidthM * *d.HeightM * float64(d.Copies))
		d.AreaM2 = &area
	} else {
		d.AreaM2 = nil
	}
	return d
}

func extractFrom(text string) Dimensions {
	var dims Dimensions
	dims.WidthM = firstMeasure(widthPatterns, text)
	dims.HeightM = firstMeasure(heightPatterns, text)

	if dims.WidthM == nil && dims.HeightM == nil {
		if m := sizePattern.FindStringSubmatch(text); m != nil {
			firstUnit := m[2]
			if firstUnit == "" {
				firstUnit = m[4]
			}
			dims.WidthM = toMeters(m[1], firstUnit)
			dims.HeightM = toMeters(m[3], m[4])
		}
	}

	for _, p := range copiesPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				dims.Copies = n
				break
			}
		}
	}
	return dims
}

func firstMeasure(patterns []*regexp.Regexp, text string) *float64 {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v := toMeters(m[1], m[2]); v != nil {
				return v
			}
		}
	}
	return nil
}

func toMeters(raw, unit string) *float64 {
	v, ok := ParseDecimal(raw)
	if !ok {
		return nil
	}
	switch strings.ToLower(unit) {
	case "cm":
		v /= 100
	case "mm":
		v /= 1000
	}
	return &v
}

// ParseDecimal accepts both "2,5" and "2.5".
func ParseDecimal(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
