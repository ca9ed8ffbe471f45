package async

import (
	"context"
	"errors"
	"fmt"
)

// Future represents the result of an asynchronous computation.
//
// A Future is written exactly once, by the goroutine started in Async.
// Callers that stop waiting (AwaitContext) never observe a late result.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for the function to complete or for ctx to be done,
// whichever happens first.
//
// When ctx wins the race the Future is abandoned: the worker goroutine keeps
// running until fn returns, its result is discarded, and the returned error
// wraps both ErrAbandoned and ctx.Err(). Whatever side effect fn started may
// or may not have completed.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, errors.Join(ErrAbandoned, ctx.Err())
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the function has returned.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Async executes fn in its own goroutine and returns a Future.
// A panic inside fn is recovered and reported as an error wrapping ErrPanic.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Early exit prevents running the work when the context is already canceled
		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result = zero
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		f.result, f.err = fn(ctx, param)
	}()

	return f
}
