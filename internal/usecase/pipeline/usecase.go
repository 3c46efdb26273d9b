// Package pipeline implements the supervisor / sub-agent / synthesizer
// fan-out over a single generation backend.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fanout-agent/internal/application/port/input"
	"fanout-agent/internal/application/port/output"
	"fanout-agent/internal/domain/entity"
	"fanout-agent/internal/infrastructure/prompts"
	"fanout-agent/internal/usecase/decompose"
)

const (
	// FailurePlaceholder replaces the backend text of a sub-agent whose
	// call failed; the batch still completes around it.
	FailurePlaceholder = "(execution failed)"

	// ApologyText is the only thing a caller ever sees when a stage
	// fails. Details go to the log, never to the user.
	ApologyText = "Sorry, something went wrong while preparing your reply. Please try again in a moment."

	defaultMaxParallel = 4
)

var _ input.PipelineRunner = (*UseCase)(nil)

type UseCase struct {
	llm         output.GeneratorPort
	logger      output.LoggerPort
	maxParallel int
}

// New builds the pipeline around an injected generation backend.
// maxParallel caps concurrent sub-agent calls: zero disables the cap,
// negative selects the default, and values above the task count are
// harmless.
func New(llm output.GeneratorPort, logger output.LoggerPort, maxParallel int) *UseCase {
	switch {
	case maxParallel < 0:
		maxParallel = defaultMaxParallel
	case maxParallel == 0:
		// errgroup treats a negative limit as no limit.
		maxParallel = -1
	}
	return &UseCase{
		llm:         llm,
		logger:      logger,
		maxParallel: maxParallel,
	}
}

// Reply runs one full pipeline pass over the user message and always
// returns text. Stage failures collapse to the fixed apology; a sub-agent
// failure is isolated to its own outcome.
func (uc *UseCase) Reply(ctx context.Context, message string) input.ReplyResult {
	log := uc.logger.WithField("trace_id", uuid.NewString())
	log.Info("Pipeline started", "messageLen", len(message))

	plan, err := uc.supervise(ctx, message)
	if err != nil {
		log.Error("Supervisor stage failed", "stage", "supervising", "error", err)
		return input.ReplyResult{Text: ApologyText, Failed: true}
	}

	if plan.Simple() {
		return uc.fallback(ctx, log, message)
	}

	outcomes := uc.dispatch(ctx, log, plan.Tasks, message)

	text, err := uc.synthesize(ctx, message, outcomes)
	if err != nil {
		log.Error("Synthesis stage failed", "stage", "synthesizing", "error", err)
		return input.ReplyResult{Text: ApologyText, Tasks: len(plan.Tasks), Failed: true}
	}

	log.Info("Pipeline completed", "tasks", len(plan.Tasks))
	return input.ReplyResult{Text: text, Tasks: len(plan.Tasks)}
}

func (uc *UseCase) supervise(ctx context.Context, message string) (entity.Plan, error) {
	prompt, err := prompts.GenerateSupervisorPrompt(prompts.SupervisorPrompt, message)
	if err != nil {
		return entity.Plan{}, fmt.Errorf("generate supervisor prompt: %w", err)
	}

	raw, err := uc.llm.Generate(ctx, prompt)
	if err != nil {
		return entity.Plan{}, fmt.Errorf("supervisor call: %w", err)
	}

	// Unparsable output is not an error, it is the simple-request signal.
	return decompose.Parse(raw), nil
}

// fallback answers a simple request with a single direct call, the raw
// message as the prompt, no template wrapping.
func (uc *UseCase) fallback(ctx context.Context, log output.LoggerPort, message string) input.ReplyResult {
	text, err := uc.llm.Generate(ctx, message)
	if err != nil {
		log.Error("Fallback stage failed", "stage", "fallback", "error", err)
		return input.ReplyResult{Text: ApologyText, Fallback: true, Failed: true}
	}

	log.Info("Pipeline completed", "fallback", true)
	return input.ReplyResult{Text: text, Fallback: true}
}

// dispatch fans the descriptors out to concurrent backend calls and waits
// for every one of them. Each worker owns one slot of the results slice, so
// outcome order matches descriptor order with no locking, regardless of
// completion order.
func (uc *UseCase) dispatch(ctx context.Context, log output.LoggerPort, tasks []entity.TaskDescriptor, message string) []entity.TaskOutcome {
	outcomes := make([]entity.TaskOutcome, len(tasks))

	var g errgroup.Group
	g.SetLimit(uc.maxParallel)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			outcomes[i] = uc.runSubAgent(ctx, log, task, message)
			return nil
		})
	}

	// Workers never return errors, so this is a plain all-complete join.
	_ = g.Wait()

	return outcomes
}

func (uc *UseCase) runSubAgent(ctx context.Context, log output.LoggerPort, task entity.TaskDescriptor, message string) entity.TaskOutcome {
	prompt, err := prompts.GenerateSubAgentPrompt(prompts.SubAgentPrompt, task, message)
	if err == nil {
		var text string
		text, err = uc.llm.Generate(ctx, prompt)
		if err == nil {
			log.Debug("Sub-agent completed", "role", task.Role, "resultLen", len(text))
			return entity.TaskOutcome{Role: task.Role, Text: text}
		}
	}

	log.Error("Sub-agent failed", "stage", "dispatching", "role", task.Role, "error", err)
	return entity.TaskOutcome{Role: task.Role, Text: FailurePlaceholder, Failed: true}
}

func (uc *UseCase) synthesize(ctx context.Context, message string, outcomes []entity.TaskOutcome) (string, error) {
	prompt, err := prompts.GenerateSynthesisPrompt(prompts.SynthesisPrompt, message, outcomes)
	if err != nil {
		return "", fmt.Errorf("generate synthesis prompt: %w", err)
	}

	text, err := uc.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesis call: %w", err)
	}

	return text, nil
}
