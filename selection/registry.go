package selection

import (
	"fmt"
	"sort"
	"sync"
)

// Outcome is the result of one candidate: an evaluation or an error.
type Outcome struct {
	Label string
	Eval  *Evaluation
	Err   error
}

// OK reports whether the candidate was estimated.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Eval != nil
}

// Registry collects candidate outcomes keyed by model label. It is safe for
// concurrent Record calls and is append-only: a label is recorded once.
type Registry struct {
	mu       sync.Mutex
	Results  map[string]*Evaluation `json:"results"`
	Failures map[string]string      `json:"failures"`
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Results:  make(map[string]*Evaluation),
		Failures: make(map[string]string),
	}
}

// Record adds an outcome. A label already present as a result or a failure
// is rejected with ErrDuplicateLabel.
func (r *Registry) Record(o Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Results[o.Label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, o.Label)
	}
	if _, ok := r.Failures[o.Label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, o.Label)
	}

	if o.OK() {
		r.Results[o.Label] = o.Eval
	} else {
		msg := "no result"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		r.Failures[o.Label] = msg
	}
	r.order = append(r.order, o.Label)
	return nil
}

// Len returns the number of recorded candidates.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Evaluations returns the successful evaluations sorted by label.
func (r *Registry) Evaluations() []*Evaluation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Evaluation, 0, len(r.Results))
	for _, ev := range r.Results {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

// FailureLabels returns the labels of failed candidates, sorted.
func (r *Registry) FailureLabels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.Failures))
	for label := range r.Failures {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
