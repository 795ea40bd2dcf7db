package scores

import "sync"

// Connectivity is the offline flag that picks the authoritative store.
// A permanently offline instance ignores attempts to go online; it is used
// when the remote is not configured or could not be opened.
type Connectivity struct {
	mu        sync.RWMutex
	offline   bool
	permanent bool
	listeners []func(offline bool)
}

func NewConnectivity(offline bool) *Connectivity {
	return &Connectivity{offline: offline}
}

func PermanentlyOffline() *Connectivity {
	return &Connectivity{offline: true, permanent: true}
}

func (c *Connectivity) Offline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offline
}

func (c *Connectivity) Permanent() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.permanent
}

// Set updates the flag and notifies listeners when it changed.
func (c *Connectivity) Set(offline bool) bool {
	c.mu.Lock()
	if c.permanent || c.offline == offline {
		c.mu.Unlock()
		return false
	}
	c.offline = offline
	listeners := append([]func(bool){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(offline)
	}
	return true
}

// OnChange registers fn to be called after every transition.
func (c *Connectivity) OnChange(fn func(offline bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
