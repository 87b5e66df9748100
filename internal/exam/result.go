package exam

import "sort"

// ScoreResult is the outcome of one scoring pass.
type ScoreResult struct {
	// Total is the sum of PerQuestion.
	Total int

	// PerQuestion maps question id to earned points. Every question in the
	// scored bank has an entry, including zero-point ones.
	PerQuestion map[int]int

	// Unscored holds ids of questions that could not be checked for lack of
	// ground truth (no resolved region). They earn 0 but are not wrong.
	Unscored map[int]bool
}

// IsUnscored reports whether the question could not be evaluated.
func (r ScoreResult) IsUnscored(id int) bool {
	return r.Unscored[id]
}

// UnscoredIDs returns the unscored question ids in ascending order.
func (r ScoreResult) UnscoredIDs() []int {
	ids := make([]int, 0, len(r.Unscored))
	for id, ok := range r.Unscored {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
