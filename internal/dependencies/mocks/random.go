package mocks

import (
	"sync"

	"github.com/mcoot/sketchgame/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int

	// Permutations is a queue of orderings applied by Shuffle.
	// Shuffle leaves the order unchanged when the queue is empty.
	Permutations [][]int
	permIndex    int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	if result >= n {
		return n - 1
	}
	return result
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// Shuffle reorders so that position i receives the element previously at perm[i]
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	if r.permIndex >= len(r.Permutations) {
		r.mu.Unlock()
		return
	}
	perm := r.Permutations[r.permIndex]
	r.permIndex++
	r.mu.Unlock()

	if len(perm) != n {
		return
	}
	// pos[e] tracks where original element e currently sits
	pos := make([]int, n)
	at := make([]int, n)
	for i := range pos {
		pos[i] = i
		at[i] = i
	}
	for i := 0; i < n; i++ {
		j := pos[perm[i]]
		if i == j {
			continue
		}
		swap(i, j)
		ei, ej := at[i], at[j]
		at[i], at[j] = ej, ei
		pos[ej], pos[ei] = i, j
	}
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StringResults = append(r.StringResults, values...)
}

// QueuePermutation adds an ordering to the Shuffle queue
func (r *MockRandom) QueuePermutation(perm ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Permutations = append(r.Permutations, perm)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.StringResults = nil
	r.stringIndex = 0
	r.Permutations = nil
	r.permIndex = 0
}
