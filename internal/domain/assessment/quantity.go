package assessment

import (
	"regexp"
	"strconv"
	"strings"
)

// Quantity is a revenue or headcount answer parsed into a numeric range.
// Known is false when Raw could not be interpreted. An open-ended answer
// ("500+") has a zero High.
type Quantity struct {
	Raw   string  `json:"raw"`
	Low   float64 `json:"low,omitempty"`
	High  float64 `json:"high,omitempty"`
	Known bool    `json:"known"`
}

var (
	numberToken = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(billion|million|thousand|bn|mm|[kmb])?\b`)
	openEnded   = regexp.MustCompile(`(?i)\+|\bor more\b|\bover\b|\babove\b`)
)

// ParseQuantity interprets answers such as "$5M", "10-50", "1,200",
// "$10M - $50M", "500+" or "2.5 billion".
func ParseQuantity(raw string) Quantity {
	q := Quantity{Raw: strings.TrimSpace(raw)}
	matches := numberToken.FindAllStringSubmatch(q.Raw, 2)
	if len(matches) == 0 {
		return q
	}
	vals := make([]float64, 0, 2)
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return q
		}
		vals = append(vals, v*multiplier(m[2]))
	}
	// "$10-50M" carries the unit on the upper bound only
	if len(matches) == 2 && matches[0][2] == "" && matches[1][2] != "" {
		vals[0] *= multiplier(matches[1][2])
	}
	q.Known = true
	q.Low = vals[0]
	q.High = vals[0]
	if len(vals) == 2 {
		q.High = vals[1]
		if q.High < q.Low {
			q.Low, q.High = q.High, q.Low
		}
	} else if openEnded.MatchString(q.Raw) {
		q.High = 0
	}
	return q
}

func multiplier(unit string) float64 {
	switch strings.ToLower(unit) {
	case "k", "thousand":
		return 1e3
	case "m", "mm", "million":
		return 1e6
	case "b", "bn", "billion":
		return 1e9
	}
	return 1
}

func formatTenths(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
