package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage names one step of the voice pipeline.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageAnswering     Stage = "answering"
	StageSynthesis     Stage = "synthesis"
)

// ErrStageTimeout is wrapped by StageFailure.Err when a stage ran out of time.
var ErrStageTimeout = errors.New("stage timed out")

// ErrEmptyTranscript is reported when transcription yields no text.
var ErrEmptyTranscript = errors.New("transcription produced no text")

var remediation = map[Stage]string{
	StageTranscription: "Voice transcription failed. Please check your microphone and try again.",
	StageAnswering:     "AI processing failed. Please try rephrasing your question.",
	StageSynthesis:     "Speech generation failed. Please try again later.",
}

// Hint returns the caller-facing remediation hint for the stage.
func (s Stage) Hint() string {
	return remediation[s]
}

// StageFailure reports which stage of a request failed.
//
// Message is safe to show to end users. Err holds the underlying cause
// for logging and errors.Is checks; it is not part of Error().
// Transcript and Answer keep whatever earlier stages produced.
type StageFailure struct {
	Stage      Stage
	Message    string
	Transcript string
	Answer     string
	Err        error
}

func (f *StageFailure) Error() string {
	return fmt.Sprintf("%s failed: %s", f.Stage, f.Message)
}

func (f *StageFailure) Unwrap() error {
	return f.Err
}

// IsStageFailure reports whether err is a StageFailure and returns it.
func IsStageFailure(err error) (*StageFailure, bool) {
	var failure *StageFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

func newStageFailure(stage Stage, err error) *StageFailure {
	return &StageFailure{
		Stage:   stage,
		Message: stage.Hint(),
		Err:     err,
	}
}

type outcome[T any] struct {
	value T
	err   error
}

// callWithTimeout runs fn with a deadline and returns as soon as either
// fn finishes or the deadline passes, even if fn ignores its context.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		value, err := fn(ctx)
		done <- outcome[T]{value: value, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res.value, fmt.Errorf("%w after %s: %w", ErrStageTimeout, timeout, res.err)
		}
		return res.value, res.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s: %w", ErrStageTimeout, timeout, ctx.Err())
		}
		return zero, ctx.Err()
	}
}
