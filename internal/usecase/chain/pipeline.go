package chain

import (
	"context"
	"fmt"
	"regexp"

	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
	"quiz-agent/internal/usecase/extractor"
	"quiz-agent/internal/usecase/interpreter"
	"quiz-agent/internal/usecase/submitter"
	"quiz-agent/internal/usecase/synthesizer"
)

// submitURLPattern recovers a submission endpoint from raw question text
// when the interpretation did not carry one.
var submitURLPattern = regexp.MustCompile(`https?://[^\s<>"]+/submit[^\s<>"]*`)

// Pipeline solves one quiz page end to end. Solve never panics and never
// returns an error value: the controller only ever sees the
// (success, nextURL, errText) tuple.
type Pipeline interface {
	Solve(ctx context.Context, quizURL string, ident entity.Identity) (success bool, nextURL string, errText string)
}

// QuizPipeline is the production pipeline: render, extract, interpret,
// synthesize, submit.
type QuizPipeline struct {
	renderer    output.RendererPort
	extractor   *extractor.Extractor
	interpreter *interpreter.Interpreter
	synthesizer *synthesizer.Synthesizer
	submitter   *submitter.Submitter
	logger      output.LoggerPort
}

func NewQuizPipeline(
	renderer output.RendererPort,
	ext *extractor.Extractor,
	interp *interpreter.Interpreter,
	synth *synthesizer.Synthesizer,
	sub *submitter.Submitter,
	logger output.LoggerPort,
) *QuizPipeline {
	return &QuizPipeline{
		renderer:    renderer,
		extractor:   ext,
		interpreter: interp,
		synthesizer: synth,
		submitter:   sub,
		logger:      logger,
	}
}

func (p *QuizPipeline) Solve(ctx context.Context, quizURL string, ident entity.Identity) (success bool, nextURL string, errText string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic", "url", quizURL, "panic", r)
			success, nextURL, errText = false, "", fmt.Sprintf("pipeline panic: %v", r)
		}
	}()

	markup, err := p.renderer.RenderPage(ctx, quizURL)
	if err != nil {
		return false, "", fmt.Sprintf("render %s: %v", quizURL, err)
	}

	question := p.extractor.Extract(markup)
	p.logger.Info("question extracted", "url", quizURL, "question", truncate(question, 200))

	parsed := p.interpreter.Interpret(ctx, question)
	p.logger.Info("question interpreted",
		"task_type", parsed.TaskType,
		"answer_format", parsed.AnswerFormat,
		"files", len(parsed.FilesToDownload),
		"submit_url", parsed.SubmitURL)

	answer, err := p.synthesizer.Synthesize(ctx, question, parsed)
	if err != nil {
		return false, "", err.Error()
	}

	submitURL := parsed.SubmitURL
	if submitURL == "" {
		submitURL = submitURLPattern.FindString(question)
	}
	if submitURL == "" {
		return false, "", "no submit URL found"
	}

	verdict := p.submitter.Submit(ctx, submitter.Request{
		SubmitURL: submitURL,
		Answer:    answer,
		QuizURL:   quizURL,
		AnswerKey: parsed.ExpectedAnswerKey,
		Identity:  ident,
	})
	return verdict.Correct, verdict.NextURL, verdict.Reason
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
