package font

import (
	"github.com/gogpu/maplabel/internal/parallel"
)

// Request is one text to lay out.
type Request struct {
	Font string
	Size int
	Text string
}

// Result is the outcome of a Request. Failed requests can be retried on a
// later frame.
type Result struct {
	Layout *Layout
	Err    error
}

// Layouter runs layout requests on a pool of workers against one Context.
type Layouter struct {
	ctx  *Context
	pool *parallel.Pool
}

// NewLayouter starts a layouter with the given number of workers.
// workers <= 0 selects GOMAXPROCS.
func NewLayouter(ctx *Context, workers int) *Layouter {
	return &Layouter{ctx: ctx, pool: parallel.NewPool(workers)}
}

// LayoutAll lays out every request and returns results in request order.
func (l *Layouter) LayoutAll(reqs []Request) []Result {
	results := make([]Result, len(reqs))
	jobs := make([]func(), len(reqs))
	for i, req := range reqs {
		jobs[i] = func() {
			layout, err := l.ctx.Layout(req.Font, req.Size, req.Text)
			results[i] = Result{Layout: layout, Err: err}
		}
	}
	l.pool.Run(jobs)
	return results
}

// Workers returns the number of layout workers.
func (l *Layouter) Workers() int { return l.pool.Workers() }

// Close stops the workers after pending requests finish.
func (l *Layouter) Close() {
	l.pool.Close()
}
