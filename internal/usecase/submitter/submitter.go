package submitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
)

const (
	submitTimeout   = 30 * time.Second
	maxResponseSize = 1 << 20
)

// Submitter posts a typed answer to the judge and parses the verdict. It
// never fails: transport and decode problems become an incorrect verdict
// with the error text as reason.
type Submitter struct {
	client *http.Client
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Submitter {
	return &Submitter{
		client: &http.Client{Timeout: submitTimeout},
		logger: logger,
	}
}

type Request struct {
	SubmitURL string
	Answer    entity.Answer
	QuizURL   string
	AnswerKey string
	Identity  entity.Identity
}

// Submit posts {email, secret, url, <key>: <answer>} and returns the
// judge's verdict. Any response shape is tolerated; missing fields read as
// absent/false.
func (s *Submitter) Submit(ctx context.Context, req Request) entity.Verdict {
	body, err := buildPayload(req)
	if err != nil {
		return failedVerdict(s.logger, req.SubmitURL, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.SubmitURL, bytes.NewReader(body))
	if err != nil {
		return failedVerdict(s.logger, req.SubmitURL, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	s.logger.Info("submitting answer", "submit_url", req.SubmitURL, "answer", req.Answer.Value)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return failedVerdict(s.logger, req.SubmitURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return failedVerdict(s.logger, req.SubmitURL, err)
	}
	if !gjson.ValidBytes(raw) {
		return failedVerdict(s.logger, req.SubmitURL,
			fmt.Errorf("non-JSON verdict (status %d)", resp.StatusCode))
	}

	result := gjson.ParseBytes(raw)
	verdict := entity.Verdict{
		Correct: result.Get("correct").Bool(),
		NextURL: result.Get("url").String(),
		Reason:  result.Get("reason").String(),
	}
	s.logger.Info("submission verdict",
		"correct", verdict.Correct, "next_url", verdict.NextURL, "reason", verdict.Reason)
	return verdict
}

// buildPayload serializes the submission body. sjson handles the dynamic
// answer key; path metacharacters in the key are escaped so they stay
// literal.
func buildPayload(req Request) ([]byte, error) {
	payload := "{}"
	var err error
	for _, field := range []struct {
		key   string
		value any
	}{
		{"email", req.Identity.Email},
		{"secret", req.Identity.Secret},
		{"url", req.QuizURL},
		{escapeKey(req.AnswerKey), req.Answer.Value},
	} {
		payload, err = sjson.Set(payload, field.key, field.value)
		if err != nil {
			return nil, fmt.Errorf("build payload: %w", err)
		}
	}
	return []byte(payload), nil
}

// escapeKey neutralizes sjson path syntax (".", "*" and "?") so the
// judge-supplied answer key is always treated as a single literal key.
func escapeKey(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}

func failedVerdict(logger output.LoggerPort, submitURL string, err error) entity.Verdict {
	logger.Error("submission failed", "submit_url", submitURL, "error", err)
	return entity.Verdict{Correct: false, Reason: err.Error()}
}
