// Package settle runs independent operations concurrently and collects each
// outcome separately. A failure in one operation never cancels the others.
package settle

import "context"

// Result is the outcome of one operation
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the operation succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Future is an operation started with Go
type Future[T any] struct {
	done   chan struct{}
	result Result[T]
}

// Go starts fn in its own goroutine. The context is passed through as is:
// callers decide whether the operations share a deadline.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if p := recover(); p != nil {
				f.result = Result[T]{Err: &PanicError{Value: p}}
			}
		}()
		v, err := fn(ctx)
		f.result = Result[T]{Value: v, Err: err}
	}()
	return f
}

// Wait blocks until the operation has settled
func (f *Future[T]) Wait() Result[T] {
	<-f.done
	return f.result
}

// All runs every fn concurrently and returns their results in order
func All[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	futures := make([]*Future[T], len(fns))
	for i, fn := range fns {
		futures[i] = Go(ctx, fn)
	}
	results := make([]Result[T], len(fns))
	for i, f := range futures {
		results[i] = f.Wait()
	}
	return results
}

// PanicError reports an operation that panicked
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "settle: operation panicked"
}
