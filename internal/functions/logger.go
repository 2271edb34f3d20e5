package functions

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const (
	defaultLogAmount  = 5
	defaultLogTimeout = 5.0
)

type loggerRequest struct {
	Amount  *int     `json:"amount"  validate:"omitempty,min=1,max=1000"`
	Timeout *float64 `json:"timeout" validate:"omitempty,gt=0,max=3600"`
}

type loggerResponse struct {
	Status string `json:"status"`
}

// Logger starts a background emitter that writes a number of log lines at a fixed interval.
// Emitters stop early when the base context passed to NewLogger is cancelled.
type Logger struct {
	base context.Context
	log  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewLogger(base context.Context, log *slog.Logger) *Logger {
	return &Logger{base: base, log: log}
}

func (f *Logger) Name() string { return "logger" }

// Invoke validates the request and returns immediately; log lines are written asynchronously.
func (f *Logger) Invoke(ctx context.Context, event Event) (any, error) {
	f.log.InfoContext(ctx, fmt.Sprintf("Invoking %s with payload %s", f.Name(), payloadString(event.Data)))

	var req loggerRequest
	if err := decodePayload(event.Data, &req); err != nil {
		return nil, err
	}

	amount := defaultLogAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	timeout := defaultLogTimeout
	if req.Timeout != nil {
		timeout = *req.Timeout
	}

	every := time.Duration(timeout * float64(time.Second))
	if every <= 0 {
		return nil, &ValidationError{Fields: []string{"timeout must be at least one nanosecond"}}
	}

	f.mu.Lock()
	if f.closed || f.base.Err() != nil {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: logger is shutting down", ErrUnavailable)
	}
	f.wg.Add(1)
	f.mu.Unlock()

	go f.emit(event.ID, amount, every)

	return loggerResponse{
		Status: fmt.Sprintf("Logger Started: Generating %d log messages every %s seconds",
			amount, strconv.FormatFloat(timeout, 'f', -1, 64)),
	}, nil
}

// Wait stops accepting new emitters and blocks until the running ones have finished.
func (f *Logger) Wait() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *Logger) emit(invocationID string, amount int, every time.Duration) {
	defer f.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for count := 1; count <= amount; count++ {
		select {
		case <-f.base.Done():
			f.log.Debug("Logger stopped before completion", "invocation", invocationID, "written", count-1)
			return
		case now := <-ticker.C:
			noun := "elephants"
			if count == 1 {
				noun = "elephant"
			}
			f.log.Info(fmt.Sprintf("%d %s balancing over a spiderweb at %s", count, noun, now.Format(time.RFC1123)),
				"invocation", invocationID)
		}
	}
}
