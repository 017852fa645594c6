package output

import "context"

// RendererPort executes page scripts and returns the final HTML. The
// implementation owns one browser per process; every RenderPage call must
// use an isolated page so concurrent chains never share navigation state.
type RendererPort interface {
	RenderPage(ctx context.Context, url string) (string, error)
	Close()
}
