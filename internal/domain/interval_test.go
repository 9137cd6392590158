package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-03-02 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func iv(from, to string) Interval {
	return Interval{Start: at(from), End: at(to)}
}

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", iv("09:00", "10:00"), iv("11:00", "12:00"), false},
		{"touching", iv("09:00", "10:00"), iv("10:00", "11:00"), false},
		{"partial", iv("09:00", "10:30"), iv("10:00", "11:00"), true},
		{"nested", iv("09:00", "12:00"), iv("10:00", "11:00"), true},
		{"equal", iv("09:00", "10:00"), iv("09:00", "10:00"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestInterval_ContainsAndExpand(t *testing.T) {
	open := iv("09:00", "17:00")

	assert.True(t, open.Contains(iv("09:00", "17:00")))
	assert.True(t, open.Contains(iv("10:00", "11:00")))
	assert.False(t, open.Contains(iv("08:50", "10:10")))

	fp := iv("10:00", "11:00").Expand(10 * time.Minute)
	assert.Equal(t, iv("09:50", "11:10"), fp)

	assert.Equal(t, iv("10:00", "11:00"), iv("10:00", "11:00").Expand(-5*time.Minute))
}

func TestInterval_Intersect(t *testing.T) {
	got, ok := iv("09:00", "12:00").Intersect(iv("11:00", "13:00"))
	require.True(t, ok)
	assert.Equal(t, iv("11:00", "12:00"), got)

	_, ok = iv("09:00", "10:00").Intersect(iv("10:00", "11:00"))
	assert.False(t, ok)
}

func TestMergeIntervals(t *testing.T) {
	in := []Interval{
		iv("13:00", "15:00"),
		iv("09:00", "12:00"),
		iv("11:00", "12:30"),
		iv("12:30", "13:00"),
		iv("16:00", "16:00"),
		iv("18:00", "19:00"),
	}

	got := MergeIntervals(in)

	assert.Equal(t, []Interval{iv("09:00", "15:00"), iv("18:00", "19:00")}, got)
	assert.Equal(t, iv("13:00", "15:00"), in[0], "input must not be modified")
	assert.Empty(t, MergeIntervals(nil))
}
