package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type run struct {
	name   string
	time   int
	rank   int
	points int
}

func (r *run) TimeMillis() int { return r.time }

func (r *run) SetResult(rank, points int) {
	r.rank = rank
	r.points = points
}

func runs(times ...int) []*run {
	entries := make([]*run, len(times))
	for i, t := range times {
		entries[i] = &run{time: t}
	}
	return entries
}

func TestApply_Empty(t *testing.T) {
	entries := []*run{}
	Apply(entries)
	assert.Empty(t, entries)
}

func TestApply_SingleEntry(t *testing.T) {
	entries := runs(4200)
	Apply(entries)
	assert.Equal(t, 1, entries[0].rank)
	assert.Equal(t, 1, entries[0].points)
}

func TestApply_TieSharesRankAndSkips(t *testing.T) {
	entries := runs(1000, 1000, 2000)
	Apply(entries)

	assert.Equal(t, []int{1, 1, 3}, []int{entries[0].rank, entries[1].rank, entries[2].rank})
	assert.Equal(t, []int{3, 3, 1}, []int{entries[0].points, entries[1].points, entries[2].points})
}

func TestApply_TieFreePointsSum(t *testing.T) {
	entries := runs(5000, 1000, 3000, 2000, 4000)
	Apply(entries)

	var times, points []int
	for _, e := range entries {
		times = append(times, e.time)
		points = append(points, e.points)
	}

	assert.Equal(t, []int{1000, 2000, 3000, 4000, 5000}, times)
	assert.Equal(t, []int{5, 4, 3, 2, 1}, points)

	// With no ties the points sum is n(n+1)/2.
	sum := 0
	for _, p := range points {
		sum += p
	}
	assert.Equal(t, 15, sum)
}

func TestApply_AllTied(t *testing.T) {
	entries := runs(1500, 1500, 1500, 1500)
	Apply(entries)

	for _, e := range entries {
		assert.Equal(t, 1, e.rank)
		assert.Equal(t, 4, e.points)
	}
}

func TestApply_Totality(t *testing.T) {
	entries := runs(900, 300, 300, 1200, 700, 700, 700, 100)
	Apply(entries)

	n := len(entries)
	for _, e := range entries {
		assert.GreaterOrEqual(t, e.rank, 1)
		assert.LessOrEqual(t, e.rank, n)
		assert.Equal(t, n-e.rank+1, e.points)
	}

	// Smaller time never ranks worse.
	for i := 1; i < n; i++ {
		assert.LessOrEqual(t, entries[i-1].rank, entries[i].rank)
	}
}

func TestApply_StableForTiedEntries(t *testing.T) {
	first := &run{name: "early", time: 2000}
	second := &run{name: "late", time: 2000}
	entries := []*run{{name: "fast", time: 1000}, first, second}

	Apply(entries)

	// Tied entries keep their input order after the stable sort.
	assert.Equal(t, "early", entries[1].name)
	assert.Equal(t, "late", entries[2].name)
	assert.Equal(t, entries[1].rank, entries[2].rank)
}

func TestApply_Idempotent(t *testing.T) {
	entries := runs(1000, 1000, 2000, 3000)
	Apply(entries)

	firstPass := make([][2]int, len(entries))
	for i, e := range entries {
		firstPass[i] = [2]int{e.rank, e.points}
	}

	Apply(entries)
	for i, e := range entries {
		assert.Equal(t, firstPass[i], [2]int{e.rank, e.points})
	}
}

func TestApply_ZeroTimeEntry(t *testing.T) {
	entries := runs(0, 500)
	Apply(entries)
	assert.Equal(t, 1, entries[0].rank)
	assert.Equal(t, 2, entries[1].rank)
}
