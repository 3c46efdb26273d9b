// Package decompose turns raw supervisor output into a Plan. The supervisor
// is only asked for JSON; whatever it actually returns, Parse never fails —
// anything that is not a JSON array of tasks collapses to a simple Plan.
package decompose

import (
	"encoding/json"
	"strings"

	"fanout-agent/internal/domain/entity"
)

type taskJSON struct {
	Role        string `json:"role"`
	Instruction string `json:"instruction"`
}

// Parse extracts an ordered task list from raw model output. It strips
// fenced code-block markers, trims whitespace and unmarshals the remainder.
// Malformed input, a non-array value, an array of non-objects or an empty
// array all yield the simple Plan; descriptors with empty fields pass
// through unvalidated.
func Parse(raw string) entity.Plan {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return entity.Plan{}
	}

	var decoded []taskJSON
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return entity.Plan{}
	}
	if len(decoded) == 0 {
		return entity.Plan{}
	}

	tasks := make([]entity.TaskDescriptor, len(decoded))
	for i, t := range decoded {
		tasks[i] = entity.TaskDescriptor{
			Role:        t.Role,
			Instruction: t.Instruction,
		}
	}
	return entity.Plan{Tasks: tasks}
}

// stripFences removes a surrounding markdown code fence, tagged or not.
// Models frequently wrap the requested JSON in ```json ... ``` despite
// instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line, including any language tag on it.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
