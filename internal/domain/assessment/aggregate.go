package assessment

const (
	MinScore = 1
	MaxScore = 10
)

// Overall is the derived company score over sections 1..5.
type Overall struct {
	Value   float64   `json:"value"`
	Scored  bool      `json:"scored"`
	Missing []Section `json:"missing,omitempty"`
}

// String renders the score the way dashboards show it.
func (o Overall) String() string {
	if !o.Scored {
		return "no score"
	}
	return formatTenths(o.Value)
}

// Aggregate combines section scores into the overall score. Every one of
// sections 1..5 must carry a score; section 6 is never read. Stale scores
// still count: they are the last good value until a rescoring replaces them.
func Aggregate(scores map[Section]SectionScore) Overall {
	values := make([]int, 0, len(ScoredSections))
	var missing []Section
	for _, s := range ScoredSections {
		sc, ok := scores[s]
		if !ok || !sc.Scored() {
			missing = append(missing, s)
			continue
		}
		values = append(values, sc.Value)
	}
	if len(missing) > 0 {
		return Overall{Missing: missing}
	}
	return Overall{Value: Mean(values), Scored: true}
}

// Mean returns the arithmetic mean of values rounded to one decimal place,
// half away from zero for the non-negative inputs scores produce. The
// rounding works on integers so 7.25 becomes 7.3 exactly.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	n := len(values)
	tenths := (20*sum + n) / (2 * n)
	return float64(tenths) / 10
}

// Color buckets a score for display: unscored gray, <=3 red, <=6 yellow,
// anything higher green.
func Color(score float64, scored bool) string {
	switch {
	case !scored:
		return "gray"
	case score <= 3:
		return "red"
	case score <= 6:
		return "yellow"
	default:
		return "green"
	}
}
