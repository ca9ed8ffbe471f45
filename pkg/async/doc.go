// Package async provides a small generic Future for running a blocking call in
// its own goroutine and racing it against a context.
//
// Async starts the supplied function and immediately returns a *Future. The
// caller can wait for completion with Await, race completion against a
// context with AwaitContext, or poll the state with IsComplete.
//
// AwaitContext is what makes a blocking transport call abandonable: when the
// context expires the caller returns at once and the worker is left to finish
// on its own. The worker only ever writes into its own Future, so an abandoned
// worker cannot race with whatever the caller does next.
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
//	defer cancel()
//
//	f := async.Async(ctx, req, transport.Send)
//	ack, err := f.AwaitContext(ctx)
//	if errors.Is(err, async.ErrAbandoned) {
//	    // the send may or may not have reached the server
//	}
//
// # Error Handling
//
// ErrAbandoned is joined with ctx.Err() when the caller stops waiting.
// ErrPanic wraps a recovered panic from the user function.
package async
