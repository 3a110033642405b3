package worker

import (
	"context"
	"log"
	"runtime"
	"sync"

	"ghost-overlay/src/messages"
)

// Job is one capture→analyze run.
type Job func(ctx context.Context) messages.Analysis

// ResultCallback is invoked on job completion from a worker goroutine.
// Callers marshal back onto the UI goroutine themselves.
type ResultCallback func(messages.Analysis)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
	once sync.Once
}

type job struct {
	ctx context.Context
	run Job
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				res := runJob(j)
				log.Printf("Worker: job finished, failed=%v", res.Failed())
				if j.cb != nil {
					j.cb(res)
				}
			}
		}()
	}
}

// runJob shields the worker from a panicking job so the callback still fires.
func runJob(j job) (res messages.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker: PANIC in job: %v", r)
			res = messages.Analysis{Err: messages.NewError(messages.KindUnknownFailure, "%v", r)}
		}
	}()
	if err := j.ctx.Err(); err != nil {
		return messages.Analysis{Err: messages.AsError(err)}
	}
	return j.run(j.ctx)
}

// Submit enqueues a job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, run Job, cb ResultCallback) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case p.jobs <- job{ctx: ctx, run: run, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work. Safe to call twice.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
