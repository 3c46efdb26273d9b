package di

import (
	"fmt"

	"fanout-agent/internal/application/port/input"
	"fanout-agent/internal/application/port/output"
	"fanout-agent/internal/infrastructure/llm/openrouter"
	"fanout-agent/internal/infrastructure/logger"
	"fanout-agent/internal/infrastructure/messenger"
	"fanout-agent/internal/infrastructure/webhook"
	"fanout-agent/internal/usecase/pipeline"
)

type Container struct {
	Logger    output.LoggerPort
	LLM       output.GeneratorPort
	Messenger output.MessengerPort
	Pipeline  input.PipelineRunner
	Webhook   *webhook.Handler
}

type Config struct {
	OpenRouterAPIKey string
	OpenRouterModel  string
	ChannelSecret    string
	ChannelToken     string
	MaxParallel      int
	Debug            bool
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	if cfg.Debug {
		llmCfg.Logger = log
	}
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	msgCfg := messenger.DefaultConfig(cfg.ChannelToken)
	msgCfg.Logger = log
	msg, err := messenger.NewClient(msgCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create messenger client: %w", err)
	}

	pipe := pipeline.New(llm, log, cfg.MaxParallel)

	hook := webhook.NewHandler(pipe, msg, cfg.ChannelSecret, log)

	return &Container{
		Logger:    log,
		LLM:       llm,
		Messenger: msg,
		Pipeline:  pipe,
		Webhook:   hook,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
