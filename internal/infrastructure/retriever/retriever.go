package retriever

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
)

const (
	downloadTimeout = 60 * time.Second
	maxDownloadSize = 32 << 20
)

var _ output.RetrieverPort = (*Client)(nil)

// Client downloads a URL, tags it with a FileKind and produces a bounded
// summary for the reasoning prompt. Raw payloads are kept on the file but
// never summarized verbatim.
type Client struct {
	httpClient *http.Client
	reasoning  output.ReasoningPort
	logger     output.LoggerPort
}

func New(reasoning output.ReasoningPort, logger output.LoggerPort) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: downloadTimeout},
		reasoning:  reasoning,
		logger:     logger,
	}
}

func (c *Client) Retrieve(ctx context.Context, url string) (*entity.RetrievedFile, error) {
	c.logger.Info("downloading file", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	kind := classify(resp.Header.Get("Content-Type"), url)
	file := &entity.RetrievedFile{
		SourceURL: url,
		Kind:      kind,
		Raw:       content,
	}
	file.Summary = c.summarize(ctx, kind, url, content)
	return file, nil
}

// classify tags the download from the content type, falling back to the
// URL extension.
func classify(contentType, url string) entity.FileKind {
	ct := strings.ToLower(contentType)
	lower := strings.ToLower(url)

	switch {
	case strings.Contains(ct, "pdf") || strings.HasSuffix(lower, ".pdf"):
		return entity.FileKindDocument
	case strings.Contains(ct, "csv") || strings.HasSuffix(lower, ".csv"),
		strings.Contains(ct, "spreadsheet") || strings.Contains(ct, "excel"),
		strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
		return entity.FileKindTabular
	case strings.Contains(ct, "image") ||
		strings.HasSuffix(lower, ".png") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return entity.FileKindImage
	case strings.Contains(ct, "json") || strings.HasSuffix(lower, ".json"):
		return entity.FileKindJSON
	default:
		return entity.FileKindText
	}
}

// summarize dispatches on the kind tag. Summaries never fail: a payload
// that cannot be parsed as its kind is described as such.
func (c *Client) summarize(ctx context.Context, kind entity.FileKind, url string, content []byte) string {
	switch kind {
	case entity.FileKindTabular:
		return summarizeTabular(url, content)
	case entity.FileKindDocument:
		return summarizePDF(content)
	case entity.FileKindImage:
		return c.summarizeImage(ctx, content)
	case entity.FileKindJSON:
		return summarizeJSON(content)
	default:
		return summarizeText(content)
	}
}
