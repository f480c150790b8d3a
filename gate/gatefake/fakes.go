// Package gatefake provides scripted collaborators for gate tests
package gatefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-admin-console/users"
)

// Verifier returns Valid/Err, or runs Fn when set
type Verifier struct {
	lock  sync.Mutex
	Valid bool
	Err   error
	Fn    func(ctx context.Context) (bool, error)
	calls int
}

func (v *Verifier) VerifyTokens(ctx context.Context) (bool, error) {
	v.lock.Lock()
	v.calls++
	fn := v.Fn
	v.lock.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return v.Valid, v.Err
}

func (v *Verifier) Calls() int {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.calls
}

type UserSource struct {
	lock  sync.Mutex
	User  *users.User
	Err   error
	Fn    func(ctx context.Context) (*users.User, error)
	calls int
}

func (u *UserSource) GetCurrentUser(ctx context.Context) (*users.User, error) {
	u.lock.Lock()
	u.calls++
	fn := u.Fn
	u.lock.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return u.User, u.Err
}

func (u *UserSource) Calls() int {
	u.lock.Lock()
	defer u.lock.Unlock()
	return u.calls
}

type Clearer struct {
	lock  sync.Mutex
	calls int
}

func (c *Clearer) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.calls++
}

func (c *Clearer) Calls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.calls
}

// Navigator records every redirect target
type Navigator struct {
	lock  sync.Mutex
	paths []string
}

func (n *Navigator) RedirectTo(path string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.paths = append(n.paths, path)
}

func (n *Navigator) Paths() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.paths...)
}
