package output

import (
	"context"

	"quiz-agent/internal/domain/entity"
)

// RetrieverPort downloads a URL and converts it into a classified file
// with a bounded summary.
type RetrieverPort interface {
	Retrieve(ctx context.Context, url string) (*entity.RetrievedFile, error)
}
