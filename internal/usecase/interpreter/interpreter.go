package interpreter

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
)

const parsePromptTemplate = `Parse this quiz question and extract key information.
Question:
%s
Provide a JSON response with:
- task_type: (download_file, web_scraping, data_analysis, api_call, visualization, text_processing)
- files_to_download: list of URLs to download
- submit_url: URL where answer should be submitted
- answer_format: (number, string, boolean, json, base64_image)
- analysis_required: description of what analysis is needed
- expected_answer_key: the key name for the answer field (usually "answer")
Return only valid JSON, no markdown or explanations.`

// Interpreter asks the reasoning service for a structured description of a
// question. It never fails: anything unusable collapses to the default
// interpretation.
type Interpreter struct {
	reasoning output.ReasoningPort
	logger    output.LoggerPort
}

func New(reasoning output.ReasoningPort, logger output.LoggerPort) *Interpreter {
	return &Interpreter{reasoning: reasoning, logger: logger}
}

// Interpret returns a fully populated ParsedQuestion for the given
// question text.
func (i *Interpreter) Interpret(ctx context.Context, question string) entity.ParsedQuestion {
	response, err := i.reasoning.Chat(ctx, output.ChatRequest{
		Prompt:      fmt.Sprintf(parsePromptTemplate, question),
		Temperature: 0.1,
	})
	if err != nil {
		i.logger.Error("interpretation request failed", "error", err)
		return entity.DefaultParsedQuestion(question)
	}

	region, ok := firstJSONObject(response)
	if !ok || !gjson.Valid(region) {
		i.logger.Warn("no parseable JSON in interpretation response")
		return entity.DefaultParsedQuestion(question)
	}

	parsed := gjson.Parse(region)
	taskType := parsed.Get("task_type")
	format := parsed.Get("answer_format")
	if !taskType.Exists() || !format.Exists() {
		i.logger.Warn("interpretation response missing required fields")
		return entity.DefaultParsedQuestion(question)
	}

	q := entity.ParsedQuestion{
		TaskType:          entity.NormalizeTaskType(taskType.String()),
		FilesToDownload:   []string{},
		SubmitURL:         parsed.Get("submit_url").String(),
		AnswerFormat:      entity.NormalizeAnswerFormat(format.String()),
		AnalysisRequired:  parsed.Get("analysis_required").String(),
		ExpectedAnswerKey: parsed.Get("expected_answer_key").String(),
	}
	for _, f := range parsed.Get("files_to_download").Array() {
		if url := f.String(); url != "" {
			q.FilesToDownload = append(q.FilesToDownload, url)
		}
	}
	if q.AnalysisRequired == "" {
		q.AnalysisRequired = question
	}
	if q.ExpectedAnswerKey == "" {
		q.ExpectedAnswerKey = "answer"
	}
	return q
}

// firstJSONObject returns the first balanced {...} region in s. The
// reasoning service may wrap JSON in prose, so a plain unmarshal of the
// whole response is not enough. Braces inside string literals are ignored.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for idx, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = idx
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : idx+1], true
			}
		}
	}
	return "", false
}
