package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"quiz-agent/internal/application/port/input"
	"quiz-agent/internal/domain/entity"
	"quiz-agent/internal/infrastructure/logger"
)

type recordingRunner struct {
	mu    sync.Mutex
	tasks []entity.QuizTask
	ids   []entity.Identity
	done  chan struct{}
}

func (r *recordingRunner) Run(ctx context.Context, task entity.QuizTask, ident entity.Identity) *input.RunResult {
	r.mu.Lock()
	r.tasks = append(r.tasks, task)
	r.ids = append(r.ids, ident)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
	return &input.RunResult{RunID: "test", Status: entity.ChainSucceeded, Iterations: 1}
}

func newTestServer(runner input.ChainRunner) *httptest.Server {
	s := NewServer(runner, "Alpha", 3*time.Minute, logger.NewNopAdapter())
	return httptest.NewServer(s.Routes())
}

func postQuiz(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/quiz", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /quiz: %v", err)
	}
	return resp
}

func TestHandleQuiz_Accepted(t *testing.T) {
	runner := &recordingRunner{done: make(chan struct{})}
	srv := newTestServer(runner)
	defer srv.Close()

	resp := postQuiz(t, srv.URL,
		`{"email": "solver@example.com", "secret": "Alpha", "url": "https://quiz.example.com/q/1"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "processing" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["accept_id"] == "" || body["accept_id"] == nil {
		t.Error("accept_id missing")
	}

	select {
	case <-runner.done:
	case <-time.After(2 * time.Second):
		t.Fatal("background run never started")
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.tasks) != 1 || runner.tasks[0].URL != "https://quiz.example.com/q/1" {
		t.Errorf("tasks = %v", runner.tasks)
	}
	if runner.ids[0].Email != "solver@example.com" || runner.ids[0].Secret != "Alpha" {
		t.Errorf("identity = %v", runner.ids[0])
	}
}

func TestHandleQuiz_InvalidSecret(t *testing.T) {
	runner := &recordingRunner{}
	srv := newTestServer(runner)
	defer srv.Close()

	resp := postQuiz(t, srv.URL, `{"email": "a@b.c", "secret": "wrong", "url": "https://q/1"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.tasks) != 0 {
		t.Error("runner should not be invoked")
	}
}

func TestHandleQuiz_MalformedJSON(t *testing.T) {
	srv := newTestServer(&recordingRunner{})
	defer srv.Close()

	resp := postQuiz(t, srv.URL, `{"email": `)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleQuiz_MissingFields(t *testing.T) {
	srv := newTestServer(&recordingRunner{})
	defer srv.Close()

	for _, body := range []string{
		`{"email": "a@b.c", "secret": "Alpha"}`,
		`{"email": "a@b.c", "url": "https://q/1"}`,
		`{}`,
	} {
		resp := postQuiz(t, srv.URL, body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST %s: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&recordingRunner{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
