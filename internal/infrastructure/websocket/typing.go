package websocket

import "sync"

type typingKey struct {
	sender   string
	receiver string
}

// TypingTracker holds the ephemeral (sender, receiver) -> typing state.
// Entries are cleared by an explicit stop signal, by a send from that
// sender to that receiver, or by the sender's disconnect. There is no
// expiry: a client that vanishes without a stop signal leaves its entry
// until the connection drops.
type TypingTracker struct {
	mu     sync.Mutex
	typing map[typingKey]struct{}
}

func NewTypingTracker() *TypingTracker {
	return &TypingTracker{typing: make(map[typingKey]struct{})}
}

func (t *TypingTracker) Set(sender, receiver string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.typing[typingKey{sender, receiver}] = struct{}{}
}

// Clear removes the entry for the pair. Clearing an absent entry is a no-op.
func (t *TypingTracker) Clear(sender, receiver string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.typing, typingKey{sender, receiver})
}

func (t *TypingTracker) IsTyping(sender, receiver string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.typing[typingKey{sender, receiver}]
	return ok
}

// ClearSender drops every entry where sender is the composing side. Called
// on disconnect.
func (t *TypingTracker) ClearSender(sender string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key := range t.typing {
		if key.sender == sender {
			delete(t.typing, key)
		}
	}
}
