package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
)

const maxSummaryLen = 4000

// Synthesizer gathers referenced files, builds a bounded context, asks the
// reasoning service for a final answer and extracts a typed value from it.
type Synthesizer struct {
	reasoning output.ReasoningPort
	retriever output.RetrieverPort
	logger    output.LoggerPort
}

func New(reasoning output.ReasoningPort, retriever output.RetrieverPort, logger output.LoggerPort) *Synthesizer {
	return &Synthesizer{reasoning: reasoning, retriever: retriever, logger: logger}
}

// Synthesize produces the answer for one quiz question. An error is only
// returned when no usable answer can be extracted; individual file
// failures are logged and skipped.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, parsed entity.ParsedQuestion) (entity.Answer, error) {
	// Plain arithmetic never needs a reasoning round-trip: evaluate it in
	// the sandboxed interpreter and only fall through on failure.
	if parsed.AnswerFormat == entity.FormatNumber && len(parsed.FilesToDownload) == 0 {
		if expr, ok := findExpression(question); ok {
			if value, ok := evalExpression(ctx, expr); ok {
				s.logger.Debug("arithmetic fast-path", "expression", expr, "value", value)
				return entity.Answer{Format: entity.FormatNumber, Value: value}, nil
			}
		}
	}

	files := s.gatherFiles(ctx, parsed.FilesToDownload)
	prompt := buildContext(question, parsed, files)

	response, err := s.reasoning.Chat(ctx, output.ChatRequest{
		Prompt:      prompt,
		Temperature: 0.1,
	})
	if err != nil {
		return entity.Answer{}, fmt.Errorf("answer request failed: %w", err)
	}

	answer, err := ExtractAnswer(response, parsed.AnswerFormat)
	if err != nil {
		return entity.Answer{}, fmt.Errorf("extract %s answer: %w", parsed.AnswerFormat, err)
	}
	return answer, nil
}

// gatherFiles retrieves every referenced file, omitting the ones that
// fail. A missing file degrades the context, it never fails the quiz.
func (s *Synthesizer) gatherFiles(ctx context.Context, urls []string) []*entity.RetrievedFile {
	var files []*entity.RetrievedFile
	for _, url := range urls {
		file, err := s.retriever.Retrieve(ctx, url)
		if err != nil {
			s.logger.Error("failed to retrieve file", "url", url, "error", err)
			continue
		}
		files = append(files, file)
	}
	return files
}

// buildContext assembles the reasoning prompt. Only bounded summaries go
// in; raw payloads are never inlined.
func buildContext(question string, parsed entity.ParsedQuestion, files []*entity.RetrievedFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Task Type: %s\n", parsed.TaskType)
	fmt.Fprintf(&b, "Analysis Required: %s\n", parsed.AnalysisRequired)

	if len(files) > 0 {
		fmt.Fprintf(&b, "\nDownloaded %d file(s).\n", len(files))
		for i, file := range files {
			summary := file.Summary
			if len(summary) > maxSummaryLen {
				summary = summary[:maxSummaryLen]
			}
			fmt.Fprintf(&b, "\nFile %d (%s) Info:\n%s\n", i+1, file.Kind, summary)
		}
	}

	fmt.Fprintf(&b, `
Based on this information, provide the FINAL ANSWER in the format: %s
If the answer is a number, return just the number.
If it's a calculation, show the calculation and then give the final number.
Be precise and accurate.`, parsed.AnswerFormat)

	return b.String()
}
