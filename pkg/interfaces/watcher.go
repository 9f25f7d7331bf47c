package interfaces

// WatchEvent reports a content file change together with the fresh check
// result for the changed file. Result is nil for removals.
type WatchEvent struct {
	Path   string
	Op     string
	Result *Result
}

// Watcher follows content directories and re-checks post files as they
// change. Close releases the underlying filesystem watches; both channels
// are closed once the watcher stops.
type Watcher interface {
	Events() <-chan WatchEvent
	Errors() <-chan error
	Close() error
}
