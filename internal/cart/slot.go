package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// DefaultSlotKey is the fixed name of the persisted cart slot.
const DefaultSlotKey = "luxuryCarpetCart"

// SlotStore is one durable key-value slot holding the serialized line
// sequence. Load reports ok=false when the slot is absent; a corrupt payload
// is an error, which the engine downgrades to an empty cart.
type SlotStore interface {
	Load(ctx context.Context) (lines []Line, ok bool, err error)
	Save(ctx context.Context, lines []Line) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// MemSlot keeps the serialized payload in memory. Round-trips go through JSON
// so it behaves like the durable backends.
type MemSlot struct {
	mu      sync.Mutex
	payload []byte
	present bool
}

func NewMemSlot() *MemSlot {
	return &MemSlot{}
}

func (s *MemSlot) Ping(ctx context.Context) error { return nil }

func (s *MemSlot) Load(ctx context.Context) ([]Line, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.present {
		return nil, false, nil
	}

	var lines []Line
	if err := json.Unmarshal(s.payload, &lines); err != nil {
		return nil, false, err
	}
	return lines, true, nil
}

func (s *MemSlot) Save(ctx context.Context, lines []Line) error {
	b, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = b
	s.present = true
	return nil
}

func (s *MemSlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = nil
	s.present = false
	return nil
}

// Corrupt overwrites the payload with raw bytes. Test hook.
func (s *MemSlot) Corrupt(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = raw
	s.present = true
}

// Present reports whether the slot currently holds a payload.
func (s *MemSlot) Present() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present
}
