package interpreter

import (
	"context"
	"errors"
	"testing"

	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
	"quiz-agent/internal/infrastructure/logger"
)

type stubReasoning struct {
	response string
	err      error
}

func (s *stubReasoning) Chat(ctx context.Context, req output.ChatRequest) (string, error) {
	return s.response, s.err
}

func (s *stubReasoning) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

func interpret(t *testing.T, response string, err error) entity.ParsedQuestion {
	t.Helper()
	i := New(&stubReasoning{response: response, err: err}, logger.NewNopAdapter())
	return i.Interpret(context.Background(), "What is 2+3?")
}

func TestInterpret_ValidResponse(t *testing.T) {
	response := `Sure, here is the parsed question:
{
  "task_type": "data_analysis",
  "files_to_download": ["https://example.com/data.csv"],
  "submit_url": "https://judge.example.com/submit",
  "answer_format": "number",
  "analysis_required": "sum the first column",
  "expected_answer_key": "answer"
}
Let me know if you need anything else.`

	q := interpret(t, response, nil)

	if q.TaskType != entity.TaskTypeDataAnalysis {
		t.Errorf("TaskType = %q", q.TaskType)
	}
	if len(q.FilesToDownload) != 1 || q.FilesToDownload[0] != "https://example.com/data.csv" {
		t.Errorf("FilesToDownload = %v", q.FilesToDownload)
	}
	if q.SubmitURL != "https://judge.example.com/submit" {
		t.Errorf("SubmitURL = %q", q.SubmitURL)
	}
	if q.AnswerFormat != entity.FormatNumber {
		t.Errorf("AnswerFormat = %q", q.AnswerFormat)
	}
	if q.ExpectedAnswerKey != "answer" {
		t.Errorf("ExpectedAnswerKey = %q", q.ExpectedAnswerKey)
	}
}

func TestInterpret_ServiceErrorYieldsDefault(t *testing.T) {
	q := interpret(t, "", errors.New("connection refused"))

	want := entity.DefaultParsedQuestion("What is 2+3?")
	if q.TaskType != want.TaskType || q.AnswerFormat != want.AnswerFormat ||
		q.AnalysisRequired != want.AnalysisRequired || q.ExpectedAnswerKey != want.ExpectedAnswerKey {
		t.Errorf("got %+v, want default", q)
	}
	if len(q.FilesToDownload) != 0 {
		t.Errorf("FilesToDownload = %v, want empty", q.FilesToDownload)
	}
}

func TestInterpret_ProseOnlyYieldsDefault(t *testing.T) {
	q := interpret(t, "I cannot parse this question, sorry.", nil)

	if q.TaskType != entity.TaskTypeUnknown {
		t.Errorf("TaskType = %q, want unknown", q.TaskType)
	}
	if q.AnalysisRequired != "What is 2+3?" {
		t.Errorf("AnalysisRequired = %q, want original question", q.AnalysisRequired)
	}
}

func TestInterpret_MissingRequiredFieldYieldsDefault(t *testing.T) {
	q := interpret(t, `{"task_type": "data_analysis"}`, nil)

	if q.TaskType != entity.TaskTypeUnknown {
		t.Errorf("TaskType = %q, want unknown (full default)", q.TaskType)
	}
}

func TestInterpret_InvalidEnumsNormalized(t *testing.T) {
	q := interpret(t, `{"task_type": "quantum_sorcery", "answer_format": "hologram"}`, nil)

	if q.TaskType != entity.TaskTypeUnknown {
		t.Errorf("TaskType = %q, want unknown", q.TaskType)
	}
	if q.AnswerFormat != entity.FormatString {
		t.Errorf("AnswerFormat = %q, want string", q.AnswerFormat)
	}
}

func TestInterpret_MissingOptionalFieldsDefaulted(t *testing.T) {
	q := interpret(t, `{"task_type": "api_call", "answer_format": "boolean"}`, nil)

	if q.SubmitURL != "" {
		t.Errorf("SubmitURL = %q, want empty", q.SubmitURL)
	}
	if q.ExpectedAnswerKey != "answer" {
		t.Errorf("ExpectedAnswerKey = %q", q.ExpectedAnswerKey)
	}
	if q.AnalysisRequired != "What is 2+3?" {
		t.Errorf("AnalysisRequired = %q", q.AnalysisRequired)
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`prefix {"a": 1} suffix`, `{"a": 1}`, true},
		{`{"a": {"b": 2}} {"c": 3}`, `{"a": {"b": 2}}`, true},
		{`{"s": "brace } inside"}`, `{"s": "brace } inside"}`, true},
		{`no json here`, ``, false},
		{`{"unterminated": 1`, ``, false},
	}
	for _, tt := range tests {
		got, ok := firstJSONObject(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("firstJSONObject(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
