// Package worker runs the data-parallel portion of a pipeline run:
// per-instance feature lookup and row assembly.
package worker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/okian/statline/internal/adapters/mq/queue"
	"github.com/okian/statline/internal/domain/model"
	"github.com/okian/statline/pkg/logger"
	"github.com/okian/statline/pkg/metrics"
)

// Vectors serves the feature vector for an entity as of a timestamp,
// computing or fetching from cache as needed. opponentID may be empty
// when the opponent timeline is unknown.
type Vectors interface {
	Vector(ctx context.Context, entityID, opponentID string, asOf time.Time) (model.FeatureVector, error)
}

// Assembler joins an instance's two vectors into one row.
type Assembler interface {
	Assemble(ctx context.Context, inst model.Instance, home, away model.FeatureVector) (model.Row, error)
}

// Result is one finished job. Err is per-instance: a failed instance
// is excluded from the dataset while the run continues.
type Result struct {
	Index int
	Row   model.Row
	Err   error
}

// Pool fans instance jobs out over a fixed number of workers and
// funnels results into a single channel. Result order is not the input
// order; the caller reorders by Result.Index.
type Pool struct {
	workerCount int
	queue       queue.Queue
	vectors     Vectors
	assembler   Assembler
	results     chan<- Result

	wg     sync.WaitGroup
	logger logger.Logger
}

// NewPool creates a pool with configuration options.
func NewPool(workerCount int, q queue.Queue, vectors Vectors, assembler Assembler, results chan<- Result, opts ...Option) *Pool {
	p := &Pool{
		workerCount: workerCount,
		queue:       q,
		vectors:     vectors,
		assembler:   assembler,
		results:     results,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker")
	}
	return p
}

// Start launches the workers. The results channel is closed once the
// queue is closed and every queued job has been processed.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerCount(p.workerCount)
	jobs := p.queue.Dequeue(ctx)

	p.wg.Add(p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		go p.run(ctx, "worker-"+strconv.Itoa(i), jobs)
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// run is one worker loop. It drains the job channel until it closes or
// the context is canceled.
func (p *Pool) run(ctx context.Context, name string, jobs <-chan queue.Job) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			res := p.process(ctx, job)
			select {
			case p.results <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// process builds both sides' vectors and assembles the row.
func (p *Pool) process(ctx context.Context, job queue.Job) Result {
	start := time.Now()
	defer func() {
		metrics.ObserveWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	inst := job.Instance
	home, err := p.vectors.Vector(ctx, inst.HomeEntity, inst.AwayEntity, inst.Timestamp)
	if err != nil {
		metrics.RecordWorkerError()
		return Result{Index: job.Index, Err: err}
	}
	away, err := p.vectors.Vector(ctx, inst.AwayEntity, inst.HomeEntity, inst.Timestamp)
	if err != nil {
		metrics.RecordWorkerError()
		return Result{Index: job.Index, Err: err}
	}

	row, err := p.assembler.Assemble(ctx, inst, home, away)
	if err != nil {
		p.logger.Warn(ctx, "instance rejected",
			logger.String("instance", inst.ID),
			logger.Error(err),
		)
		return Result{Index: job.Index, Err: err}
	}
	return Result{Index: job.Index, Row: row}
}
