package di

import (
	"fmt"
	"time"

	"quiz-agent/internal/application/port/input"
	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/infrastructure/browser/rodwrapper"
	"quiz-agent/internal/infrastructure/llm/openaiadapter"
	"quiz-agent/internal/infrastructure/logger"
	"quiz-agent/internal/infrastructure/retriever"
	"quiz-agent/internal/usecase/chain"
	"quiz-agent/internal/usecase/extractor"
	"quiz-agent/internal/usecase/interpreter"
	"quiz-agent/internal/usecase/submitter"
	"quiz-agent/internal/usecase/synthesizer"
)

type Container struct {
	Logger    output.LoggerPort
	Renderer  output.RendererPort
	Reasoning output.ReasoningPort
	Retriever output.RetrieverPort
	Runner    input.ChainRunner
}

type Config struct {
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	BrowserHeadless bool
	TimeBudget      time.Duration
	MaxIterations   int
	Debug           bool
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	browserCfg := rodwrapper.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	renderer, err := rodwrapper.NewRenderer(browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	llmCfg := openaiadapter.DefaultConfig(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	llmCfg.BaseURL = cfg.OpenAIBaseURL
	llmCfg.Logger = log
	reasoning := openaiadapter.New(llmCfg)

	files := retriever.New(reasoning, log)

	pipeline := chain.NewQuizPipeline(
		renderer,
		extractor.New(log),
		interpreter.New(reasoning, log),
		synthesizer.New(reasoning, files, log),
		submitter.New(log),
		log,
	)

	return &Container{
		Logger:    log,
		Renderer:  renderer,
		Reasoning: reasoning,
		Retriever: files,
		Runner:    chain.NewController(pipeline, log, cfg.TimeBudget, cfg.MaxIterations),
	}, nil
}

func (c *Container) Close() {
	if c.Renderer != nil {
		c.Renderer.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
