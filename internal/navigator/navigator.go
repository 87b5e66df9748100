// Package navigator tracks the position within an exam.
package navigator

// Phase is the exam phase for the current question.
type Phase int

const (
	Answering Phase = iota
	Narrating
	Finished
)

func (p Phase) String() string {
	switch p {
	case Answering:
		return "answering"
	case Narrating:
		return "narrating"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Direction is the last navigation move. It only informs screen transitions.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Outcome is the result of Next.
type Outcome int

const (
	Advanced Outcome = iota
	Done
)

func (o Outcome) String() string {
	if o == Done {
		return "finished"
	}
	return "advanced"
}

// Navigator holds the question index, last direction and phase. It is not
// safe for concurrent use; the session controller serializes access.
type Navigator struct {
	index     int
	total     int
	phase     Phase
	direction Direction
}

// Start positions the navigator on the first of total questions.
func (n *Navigator) Start(total int) {
	n.index = 0
	n.total = total
	n.phase = Answering
	n.direction = Forward
}

// Next moves forward. On the last question it finishes the exam instead,
// leaving the index unchanged. Next on a finished navigator reports Done.
func (n *Navigator) Next() Outcome {
	if n.phase == Finished {
		return Done
	}
	n.direction = Forward
	if n.index < n.total-1 {
		n.index++
		return Advanced
	}
	n.phase = Finished
	return Done
}

// Back moves to the previous question. It returns false on the first
// question and once the exam is finished.
func (n *Navigator) Back() bool {
	if n.phase == Finished || n.index == 0 {
		return false
	}
	n.direction = Backward
	n.index--
	return true
}

// SetNarrating switches between narrating and answering. A finished
// navigator stays finished.
func (n *Navigator) SetNarrating(narrating bool) {
	if n.phase == Finished {
		return
	}
	if narrating {
		n.phase = Narrating
	} else {
		n.phase = Answering
	}
}

func (n *Navigator) Index() int           { return n.index }
func (n *Navigator) Total() int           { return n.total }
func (n *Navigator) Phase() Phase         { return n.phase }
func (n *Navigator) Direction() Direction { return n.direction }
func (n *Navigator) Finished() bool       { return n.phase == Finished }
