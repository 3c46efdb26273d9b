package entity

// TaskDescriptor is one unit of independent work proposed by the supervisor.
// Role is an opaque label chosen by the supervisor at runtime; the set of
// roles is open, not an enum, and duplicates are allowed.
type TaskDescriptor struct {
	Role        string
	Instruction string
}

// TaskOutcome is the result of executing one TaskDescriptor. A failed
// outcome carries a fixed placeholder body instead of backend text.
type TaskOutcome struct {
	Role   string
	Text   string
	Failed bool
}

// Plan is the supervisor's decomposition decision. An empty task list means
// the request is simple and should take the direct fallback path.
type Plan struct {
	Tasks []TaskDescriptor
}

// Simple reports whether no decomposition was produced.
func (p Plan) Simple() bool {
	return len(p.Tasks) == 0
}
