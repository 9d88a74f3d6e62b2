package analyzer

import (
	"sort"

	"github.com/bimmerbailey/cmpctrej/internal/correlate"
)

// GroupedResult is one category and how often it occurred.
type GroupedResult struct {
	Key     string  `json:"key" yaml:"key"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Tally counts occurrences per category, remembering first-seen order.
type Tally struct {
	counts map[string]int
	order  []string
	total  int
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add counts one occurrence of category.
func (t *Tally) Add(category string) {
	if _, ok := t.counts[category]; !ok {
		t.order = append(t.order, category)
	}
	t.counts[category]++
	t.total++
}

// Count returns the occurrences recorded for category.
func (t *Tally) Count(category string) int {
	return t.counts[category]
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	return t.total
}

// Len returns the number of distinct categories.
func (t *Tally) Len() int {
	return len(t.order)
}

// Sorted returns the categories by descending count. Equal counts keep the
// order in which the categories were first added.
func (t *Tally) Sorted() []GroupedResult {
	result := make([]GroupedResult, 0, len(t.order))
	for _, key := range t.order {
		count := t.counts[key]
		result = append(result, GroupedResult{
			Key:     key,
			Count:   count,
			Percent: float64(count) * 100 / float64(t.total),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return result
}

// Tally groups every (block, txid, reason) entry of res and counts the
// resulting categories.
func (g *Grouper) Tally(res *correlate.Result) *Tally {
	t := NewTally()
	res.Each(func(_, _, reason string) {
		t.Add(g.Category(reason))
	})
	return t
}
