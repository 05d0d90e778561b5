package lock

// Tail exposes the completion channel currently queued last for key.
func (l *KeyedLocker) Tail(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tails[key]
}
