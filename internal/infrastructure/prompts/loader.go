package prompts

import (
	_ "embed"
)

//go:embed supervisor.txt
var SupervisorPrompt string

//go:embed subagent.txt
var SubAgentPrompt string

//go:embed synthesis.txt
var SynthesisPrompt string
