package input

import "context"

// ReplyResult is the terminal value of one pipeline run. Text is always
// populated; callers never see an error, only the apology text with Failed
// set when a stage could not complete.
type ReplyResult struct {
	Text     string
	Tasks    int
	Fallback bool
	Failed   bool
}

type PipelineRunner interface {
	Reply(ctx context.Context, message string) ReplyResult
}
