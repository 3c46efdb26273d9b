package prompts

import (
	"bytes"
	"text/template"

	"fanout-agent/internal/domain/entity"
)

type SupervisorPromptData struct {
	Message string
}

type SubAgentPromptData struct {
	Role        string
	Instruction string
	Message     string
}

type SynthesisPromptData struct {
	Message  string
	Outcomes []entity.TaskOutcome
}

// GenerateSupervisorPrompt renders the decomposition instruction around the
// verbatim user message.
func GenerateSupervisorPrompt(baseTemplate, message string) (string, error) {
	return render("supervisor", baseTemplate, SupervisorPromptData{
		Message: message,
	})
}

// GenerateSubAgentPrompt renders one specialist prompt from a descriptor
// and the original user message. Role and Instruction are used verbatim,
// empty or not.
func GenerateSubAgentPrompt(baseTemplate string, task entity.TaskDescriptor, message string) (string, error) {
	return render("subagent", baseTemplate, SubAgentPromptData{
		Role:        task.Role,
		Instruction: task.Instruction,
		Message:     message,
	})
}

// GenerateSynthesisPrompt renders the merge instruction with every outcome
// labeled by role, in the order the outcomes are given.
func GenerateSynthesisPrompt(baseTemplate, message string, outcomes []entity.TaskOutcome) (string, error) {
	return render("synthesis", baseTemplate, SynthesisPromptData{
		Message:  message,
		Outcomes: outcomes,
	})
}

func render(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
