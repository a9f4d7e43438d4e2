package engine

import "genniabot/internal/planner"

// Queue holds the planned steps in execution order.
type Queue struct {
	steps []planner.Step
}

func (q *Queue) Push(steps ...planner.Step) {
	q.steps = append(q.steps, steps...)
}

func (q *Queue) Front() (planner.Step, bool) {
	if len(q.steps) == 0 {
		return planner.Step{}, false
	}
	return q.steps[0], true
}

func (q *Queue) PopFront() (planner.Step, bool) {
	step, ok := q.Front()
	if ok {
		q.steps = q.steps[1:]
	}
	return step, ok
}

func (q *Queue) Len() int    { return len(q.steps) }
func (q *Queue) Empty() bool { return len(q.steps) == 0 }
func (q *Queue) Clear()      { q.steps = nil }

// Items returns a copy of the queued steps.
func (q *Queue) Items() []planner.Step {
	out := make([]planner.Step, len(q.steps))
	copy(out, q.steps)
	return out
}
