package worker

// Scheduler decides how background work runs. Production detaches it from
// the request; tests run it inline so assertions see completed work.
type Scheduler interface {
	Go(fn func())
}

// DetachedScheduler runs work in its own goroutine. The work has no caller
// left to cancel it and runs to natural completion or local failure.
type DetachedScheduler struct{}

func (DetachedScheduler) Go(fn func()) { go fn() }

// SyncScheduler runs work inline. Used by tests and the CLI.
type SyncScheduler struct{}

func (SyncScheduler) Go(fn func()) { fn() }
