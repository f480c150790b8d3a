package gate

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-admin-console/users"
)

type State int

const (
	Loading State = iota
	Error
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "Loading"
	case Error:
		return "Error"
	case Authorized:
		return "Authorized"
	case Unauthorized:
		return "Unauthorized"
	default:
		return "Unknown"
	}
}

// Evaluation holds the flags of one gate run. The visible state is derived
// from them in a fixed order, see State.
type Evaluation struct {
	lock       sync.RWMutex
	loading    bool
	failed     bool
	authorized bool
	redirected bool
	user       *users.User
	err        error
	done       chan struct{}
}

func newEvaluation() *Evaluation {
	return &Evaluation{loading: true, done: make(chan struct{})}
}

// State resolves the flags: Error, then Loading, then Authorized, else Unauthorized.
func (e *Evaluation) State() State {
	e.lock.RLock()
	defer e.lock.RUnlock()
	switch {
	case e.failed:
		return Error
	case e.loading:
		return Loading
	case e.authorized:
		return Authorized
	default:
		return Unauthorized
	}
}

// Done is closed once the evaluation has finished
func (e *Evaluation) Done() <-chan struct{} {
	return e.done
}

func (e *Evaluation) Wait() {
	<-e.done
}

// User is the administrator, set only when Authorized
func (e *Evaluation) User() *users.User {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.user
}

// Redirected reports whether invalid tokens sent the caller to sign in
func (e *Evaluation) Redirected() bool {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.redirected
}

func (e *Evaluation) Err() error {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.err
}

// abandoned records the context error when the caller has gone away. No
// further transitions happen after that.
func (e *Evaluation) abandoned(ctx context.Context) bool {
	err := ctx.Err()
	if err == nil {
		return false
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.err = err
	return true
}

func (e *Evaluation) fail(ctx context.Context, err error) {
	if e.abandoned(ctx) {
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.failed = true
	e.err = err
}

func (e *Evaluation) authorize(u *users.User) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.authorized = true
	e.user = u
}

func (e *Evaluation) markRedirected() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.redirected = true
}

func (e *Evaluation) finish() {
	e.lock.Lock()
	e.loading = false
	e.lock.Unlock()
	close(e.done)
}
