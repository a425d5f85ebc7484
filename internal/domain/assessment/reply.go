package assessment

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reply is a parsed scoring answer from the text-generation provider.
type Reply struct {
	Score     int
	Rationale string
}

var digitRun = regexp.MustCompile(`\d+`)

// ParseReply extracts a 1..10 score from free-form provider output.
//
// A JSON object with a "score" field is authoritative and must hold an
// integral value in range. Without one, the first standalone integer in
// range wins; digits inside words, decimals, negative numbers, ranges
// ("1-10"), grouped thousands ("1,200"), percentages and denominators
// ("/10", "out of 10") are not standalone.
func ParseReply(text string) (Reply, error) {
	if r, ok, err := parseJSONReply(text); ok {
		return r, err
	}
	return scanReply(text)
}

func parseJSONReply(text string) (Reply, bool, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Reply{}, false, nil
	}
	var obj struct {
		Score         json.RawMessage `json:"score"`
		Justification string          `json:"justification"`
		Rationale     string          `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil || len(obj.Score) == 0 {
		return Reply{}, false, nil
	}
	score, err := jsonScore(obj.Score)
	if err != nil {
		return Reply{}, true, err
	}
	rationale := obj.Justification
	if rationale == "" {
		rationale = obj.Rationale
	}
	return Reply{Score: score, Rationale: strings.TrimSpace(rationale)}, true, nil
}

func jsonScore(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: score field %s is not a number", ErrScoring, string(raw))
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%w: score field %q is not an integer", ErrScoring, s)
		}
		f = float64(n)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: score %v is not an integer", ErrScoring, f)
	}
	if f < MinScore || f > MaxScore {
		return 0, fmt.Errorf("%w: score %v outside %d..%d", ErrScoring, f, MinScore, MaxScore)
	}
	return int(f), nil
}

func scanReply(text string) (Reply, error) {
	seen := -1
	for _, loc := range digitRun.FindAllStringIndex(text, -1) {
		if !standalone(text, loc[0], loc[1]) {
			continue
		}
		n, err := strconv.Atoi(text[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		if n >= MinScore && n <= MaxScore {
			return Reply{Score: n, Rationale: strings.TrimSpace(text)}, nil
		}
		if seen < 0 {
			seen = n
		}
	}
	if seen >= 0 {
		return Reply{}, fmt.Errorf("%w: score %d outside %d..%d", ErrScoring, seen, MinScore, MaxScore)
	}
	return Reply{}, fmt.Errorf("%w: no score in reply", ErrScoring)
}

func standalone(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		switch {
		case prev == '.' || prev == '-' || prev == '/' || prev == '_':
			return false
		case unicode.IsLetter(prev):
			return false
		case prev == ',':
			// thousands group, as in the 200 of "1,200"
			before, _ := utf8.DecodeLastRuneInString(text[:start-1])
			if unicode.IsDigit(before) {
				return false
			}
		}
		if strings.HasSuffix(strings.ToLower(strings.TrimRight(text[:start], " ")), "out of") {
			return false
		}
	}
	if end < len(text) {
		next, size := utf8.DecodeRuneInString(text[end:])
		switch {
		case next == '_' || next == '%' || unicode.IsLetter(next):
			return false
		case next == '.' || next == '-' || next == ',':
			if end+size < len(text) {
				after, _ := utf8.DecodeRuneInString(text[end+size:])
				if unicode.IsDigit(after) {
					return false
				}
			}
		}
	}
	return true
}
