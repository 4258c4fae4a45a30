package tools

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Call is one requested tool invocation from the agent loop. ID is the
// caller's correlation handle; completions arrive in no particular order.
type Call struct {
	ID    string
	Name  string
	Input any
}

// Result pairs a call with its outcome. Exactly one of Output and Err is
// set.
type Result struct {
	Call   Call
	Output *Output
	Err    error
}

// Hooks customizes executor behavior at the points the hosting application
// cares about.
type Hooks struct {
	// RequestConfirmation is consulted when a tool reports it needs
	// confirmation. Returning false declines the run. When nil, runs that
	// need confirmation are declined.
	RequestConfirmation func(ctx context.Context, tool Tool, call Call) bool

	// BeforeRun is called before each run and may return a modified
	// context. When nil the context passes through unchanged.
	BeforeRun func(ctx context.Context, call Call) context.Context

	// AfterRun is called after each run with timing info.
	AfterRun func(call Call, output *Output, duration time.Duration, err error)
}

// Executor dispatches tool calls asynchronously. Each call runs in its own
// goroutine and suspends only on the remote reply, so any number of
// invocations may be in flight at once. The executor enforces no deadline
// unless Timeout is set; cancellation of ctx stops the local wait but does
// not abort the remote side.
type Executor struct {
	Registry *Registry
	Hooks    *Hooks
	Timeout  time.Duration
}

// NewExecutor creates an executor over the given registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{Registry: registry}
}

// WithHooks sets hooks and returns the executor for chaining.
func (e *Executor) WithHooks(hooks *Hooks) *Executor {
	e.Hooks = hooks
	return e
}

// WithTimeout sets a per-call timeout and returns the executor for chaining.
func (e *Executor) WithTimeout(timeout time.Duration) *Executor {
	e.Timeout = timeout
	return e
}

// Execute schedules one call and returns a channel that delivers its single
// result.
func (e *Executor) Execute(ctx context.Context, call Call) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		results <- e.run(ctx, call)
	}()
	return results
}

// ExecuteAll schedules every call concurrently. The returned channel
// delivers one result per call in completion order, then closes.
func (e *Executor) ExecuteAll(ctx context.Context, calls []Call) <-chan Result {
	results := make(chan Result, len(calls))

	var wg sync.WaitGroup
	for _, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.run(ctx, call)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

func (e *Executor) run(ctx context.Context, call Call) Result {
	tool, ok := e.Registry.Get(call.Name)
	if !ok {
		return Result{Call: call, Err: fmt.Errorf("tool not found: %s", call.Name)}
	}

	if tool.NeedsConfirmation(call.Input) {
		if e.Hooks == nil || e.Hooks.RequestConfirmation == nil || !e.Hooks.RequestConfirmation(ctx, tool, call) {
			return Result{Call: call, Err: fmt.Errorf("%s: %w", call.Name, ErrConfirmationDeclined)}
		}
	}

	runCtx := ctx
	if e.Hooks != nil && e.Hooks.BeforeRun != nil {
		runCtx = e.Hooks.BeforeRun(ctx, call)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, e.Timeout)
		defer cancel()
	}

	start := time.Now()
	output, err := tool.Run(runCtx, call.Input)
	duration := time.Since(start)

	if e.Hooks != nil && e.Hooks.AfterRun != nil {
		e.Hooks.AfterRun(call, output, duration, err)
	}

	return Result{Call: call, Output: output, Err: err}
}
