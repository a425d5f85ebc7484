package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scored(values map[Section]int) map[Section]SectionScore {
	out := make(map[Section]SectionScore, len(values))
	for s, v := range values {
		out[s] = SectionScore{Section: s, Value: v}
	}
	return out
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"empty", nil, 0},
		{"whole", []int{8, 6, 7, 9, 5}, 7.0},
		{"half rounds up", []int{7, 7, 8, 7}, 7.3},
		{"thirds", []int{1, 1, 2}, 1.3},
		{"two thirds", []int{1, 2, 2}, 1.7},
		{"single", []int{10}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mean(tt.values))
		})
	}
}

func TestAggregate(t *testing.T) {
	t.Run("all five scored", func(t *testing.T) {
		o := Aggregate(scored(map[Section]int{1: 8, 2: 6, 3: 7, 4: 9, 5: 5}))
		assert.True(t, o.Scored)
		assert.Equal(t, 7.0, o.Value)
		assert.Empty(t, o.Missing)
		assert.Equal(t, "7.0", o.String())
	})

	t.Run("section 6 is ignored", func(t *testing.T) {
		scores := scored(map[Section]int{1: 8, 2: 6, 3: 7, 4: 9, 5: 5, 6: 1})
		assert.Equal(t, 7.0, Aggregate(scores).Value)
	})

	t.Run("missing sections listed", func(t *testing.T) {
		o := Aggregate(scored(map[Section]int{1: 8, 3: 7, 5: 5, 6: 10}))
		assert.False(t, o.Scored)
		assert.Equal(t, []Section{SectionCapabilities, SectionPartnerships}, o.Missing)
		assert.Equal(t, "no score", o.String())
	})

	t.Run("zero value counts as missing", func(t *testing.T) {
		o := Aggregate(scored(map[Section]int{1: 8, 2: 0, 3: 7, 4: 9, 5: 5}))
		assert.False(t, o.Scored)
		assert.Equal(t, []Section{SectionCapabilities}, o.Missing)
	})

	t.Run("stale scores still count", func(t *testing.T) {
		scores := scored(map[Section]int{1: 7, 2: 7, 3: 8, 4: 7, 5: 7})
		s := scores[SectionIndustry]
		s.Stale = true
		scores[SectionIndustry] = s
		o := Aggregate(scores)
		assert.True(t, o.Scored)
		assert.Equal(t, 7.2, o.Value)
	})

	t.Run("nothing scored", func(t *testing.T) {
		o := Aggregate(nil)
		assert.False(t, o.Scored)
		assert.Len(t, o.Missing, 5)
	})
}

func TestColor(t *testing.T) {
	assert.Equal(t, "gray", Color(0, false))
	assert.Equal(t, "red", Color(1, true))
	assert.Equal(t, "red", Color(3, true))
	assert.Equal(t, "yellow", Color(3.1, true))
	assert.Equal(t, "yellow", Color(6, true))
	assert.Equal(t, "green", Color(6.1, true))
	assert.Equal(t, "green", Color(10, true))
}
