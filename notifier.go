package focus

// ListenerHandle identifies one AddListener registration.
// The zero value is never returned by AddListener.
type ListenerHandle uint64

type listenerEntry struct {
	handle  ListenerHandle
	fn      func()
	removed bool
}

// ChangeNotifier keeps a list of listeners called on change.
// Node and Manager embed it.
//
// Listeners added while a notification is running are not visited until the
// next one. Listeners removed while a notification is running are skipped.
type ChangeNotifier struct {
	listeners []*listenerEntry
	next      ListenerHandle
}

// AddListener registers fn and returns the handle used to remove it.
func (c *ChangeNotifier) AddListener(fn func()) ListenerHandle {
	c.next++
	c.listeners = append(c.listeners, &listenerEntry{handle: c.next, fn: fn})
	return c.next
}

// RemoveListener drops the registration for h. Unknown handles are ignored.
func (c *ChangeNotifier) RemoveListener(h ListenerHandle) {
	for i, l := range c.listeners {
		if l.handle == h {
			l.removed = true
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return
		}
	}
}

// HasListeners reports whether any listener is registered.
func (c *ChangeNotifier) HasListeners() bool {
	return len(c.listeners) > 0
}

// notifyListeners calls every listener registered when the call started.
func (c *ChangeNotifier) notifyListeners() {
	if len(c.listeners) == 0 {
		return
	}
	snapshot := make([]*listenerEntry, len(c.listeners))
	copy(snapshot, c.listeners)
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		l.fn()
	}
}

func (c *ChangeNotifier) clearListeners() {
	for _, l := range c.listeners {
		l.removed = true
	}
	c.listeners = nil
}
