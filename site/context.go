// Package site tracks the process wide active site used when resolving
// public item urls.
package site

import "sync"

const DEFAULT_SITE string = "shell"

// Context is the ambient active site. Switching it for the duration of a call
// must go through Within so concurrent callers never see each other's switch.
type Context struct {
	mu        sync.RWMutex
	active    string
	switching sync.Mutex
}

func NewContext(initial string) *Context {
	if initial == "" {
		initial = DEFAULT_SITE
	}
	return &Context{active: initial}
}

func (c *Context) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

func (c *Context) set(name string) {
	c.mu.Lock()
	c.active = name
	c.mu.Unlock()
}

// Within makes name the active site while fn runs and restores the previous
// site on every exit path, panics included.
func (c *Context) Within(name string, fn func() error) error {
	c.switching.Lock()
	defer c.switching.Unlock()
	previous := c.Active()
	c.set(name)
	defer c.set(previous)
	return fn()
}
