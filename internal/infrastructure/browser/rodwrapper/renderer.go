package rodwrapper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"quiz-agent/internal/application/port/output"
)

var _ output.RendererPort = (*Renderer)(nil)

// Renderer owns one Chrome process for the whole process lifetime. Every
// RenderPage call opens its own page, so concurrent chains never share
// navigation state.
type Renderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher // held so the Chrome process can be killed on Close
	timeout  time.Duration
	settle   time.Duration
}

type Config struct {
	Headless  bool
	Timeout   time.Duration
	Settle    time.Duration
	NoSandbox bool
}

func DefaultConfig() Config {
	return Config{
		Headless:  true,
		Timeout:   30 * time.Second,
		Settle:    2 * time.Second,
		NoSandbox: true,
	}
}

func NewRenderer(cfg Config) (*Renderer, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	return &Renderer{
		browser:  browser,
		launcher: l,
		timeout:  cfg.Timeout,
		settle:   cfg.Settle,
	}, nil
}

// RenderPage navigates an isolated page to url, waits for scripts to
// finish and returns the final HTML.
func (r *Renderer) RenderPage(ctx context.Context, url string) (string, error) {
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(r.timeout)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	// Dynamically-served quizzes write the question after load; give the
	// page scripts a moment to run.
	_ = page.WaitIdle(r.settle)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

// Close shuts down both the browser connection and the Chrome process.
func (r *Renderer) Close() {
	if r.browser != nil {
		_ = r.browser.Close()
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher.Cleanup()
	}
}
