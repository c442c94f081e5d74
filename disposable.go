package disposal

import "io"

type (
	// Disposable is a resource whose release cannot fail.
	Disposable interface {
		Dispose()
	}

	// DisposableFunc adapts a func to Disposable and io.Closer.
	DisposableFunc func()

	// CloserFunc adapts a func to io.Closer.
	CloserFunc func() error

	// disposableCloser exposes a Disposable as an io.Closer.
	disposableCloser struct {
		Disposable
	}
)

func (f DisposableFunc) Dispose() {
	f()
}

func (f DisposableFunc) Close() error {
	f()
	return nil
}

func (f CloserFunc) Close() error {
	return f()
}

func (d disposableCloser) Close() error {
	d.Dispose()
	return nil
}

// Closer returns an io.Closer that disposes d.
// A nil Disposable yields a nil io.Closer.
func Closer(d Disposable) io.Closer {
	if isNil(d) {
		return nil
	}
	return disposableCloser{d}
}
