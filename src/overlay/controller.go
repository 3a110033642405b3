package overlay

import (
	"context"
	"log"

	"ghost-overlay/src/logutil"
	"ghost-overlay/src/messages"
	"ghost-overlay/src/worker"
)

// View is the visible surface the controller drives.
type View interface {
	SetStatus(text string)
	SetTriggerEnabled(enabled bool)
}

// Capturer produces the screenshot for one analysis.
type Capturer interface {
	Capture(ctx context.Context) (messages.Capture, error)
}

// Analyzer is the vision client.
type Analyzer interface {
	Ready() bool
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// Runner executes the pipeline off the UI goroutine. *worker.Pool satisfies it.
type Runner interface {
	Submit(ctx context.Context, run worker.Job, cb worker.ResultCallback) bool
}

type Options struct {
	View     View
	Mover    Mover
	Capturer Capturer
	Analyzer Analyzer
	Runner   Runner
	// Post runs fn on the UI goroutine. Nil runs fn inline.
	Post func(fn func())
	// Quit terminates the application.
	Quit     func()
	Position Point
}

// Controller owns the overlay state and the Analyze workflow.
type Controller struct {
	state    State
	drag     *Drag
	view     View
	capturer Capturer
	analyzer Analyzer
	runner   Runner
	post     func(func())
	quit     func()
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewController(opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		state:    State{Position: opts.Position, LastMessage: messages.StatusReady},
		view:     opts.View,
		capturer: opts.Capturer,
		analyzer: opts.Analyzer,
		runner:   opts.Runner,
		post:     opts.Post,
		quit:     opts.Quit,
		ctx:      ctx,
		cancel:   cancel,
	}
	if c.post == nil {
		c.post = func(fn func()) { fn() }
	}
	c.drag = newDrag(&c.state, opts.Mover)
	return c
}

// Drag returns the pointer handler bound to this overlay's position.
func (c *Controller) Drag() *Drag { return c.drag }

// State returns a copy of the current overlay state.
func (c *Controller) State() State { return c.state }

// LastMessage is the text currently in the status area.
func (c *Controller) LastMessage() string { return c.state.LastMessage }

// OnAnalyzeRequested starts one capture→analyze run unless one is already in
// flight. Must be called on the UI goroutine.
func (c *Controller) OnAnalyzeRequested() {
	if c.state.Busy {
		log.Printf("Analyze requested while busy, ignoring")
		return
	}
	if c.analyzer == nil || !c.analyzer.Ready() {
		c.setStatus(messages.NewError(messages.KindNotInitialized, "client not initialized").Status())
		return
	}

	c.state.Busy = true
	c.setTriggerEnabled(false)
	c.setStatus(messages.StatusSending)

	submitted := c.runner.Submit(c.ctx, c.pipeline, func(res messages.Analysis) {
		c.post(func() { c.finish(res) })
	})
	if !submitted {
		c.finish(messages.Analysis{Err: messages.NewError(messages.KindUnknownFailure, "busy, please retry")})
	}
}

// OnCloseRequested abandons any in-flight run and quits.
func (c *Controller) OnCloseRequested() {
	log.Printf("Close requested")
	c.cancel()
	if c.quit != nil {
		c.quit()
	}
}

// pipeline runs on a worker goroutine and must not touch c.state.
func (c *Controller) pipeline(ctx context.Context) messages.Analysis {
	capture, err := c.capturer.Capture(ctx)
	if err != nil {
		return messages.Analysis{Err: messages.AsError(err)}
	}

	text, err := c.analyzer.AnalyzeImage(ctx, capture.Data, capture.MimeType)
	if err != nil {
		return messages.Analysis{Err: messages.AsError(err)}
	}
	return messages.Analysis{Text: text}
}

func (c *Controller) finish(res messages.Analysis) {
	if res.Failed() {
		log.Printf("Analysis failed: %v", res.Err)
	} else {
		log.Printf("Analysis completed (%d chars): %q", len(res.Text), logutil.SanitizeForLogging(res.Text))
	}
	c.state.Busy = false
	c.setStatus(res.Status())
	c.setTriggerEnabled(true)
}

func (c *Controller) setStatus(text string) {
	c.state.LastMessage = text
	if c.view != nil {
		c.view.SetStatus(text)
	}
}

func (c *Controller) setTriggerEnabled(enabled bool) {
	if c.view != nil {
		c.view.SetTriggerEnabled(enabled)
	}
}
