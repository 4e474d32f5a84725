package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	data  []byte
	timer *time.Timer
	gen   uint64
}

// MemoryStore keeps sessions in process memory. Every Save arms an idle
// timer; ScheduleExpiry replaces it. A timer only removes the generation it
// was armed for, so activity in the meantime wins.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]*memoryEntry
	idleTimeout time.Duration
	now         func() time.Time
	closed      bool
}

// NewMemoryStore creates an in-memory store. idleTimeout <= 0 disables
// expiry of abandoned sessions.
func NewMemoryStore(idleTimeout time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]*memoryEntry),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, sessionID, phoneNumber string) (*Session, error) {
	s, err := m.Get(ctx, sessionID)
	if err == ErrNotFound {
		return New(sessionID, phoneNumber, m.now()), nil
	}
	return s, err
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	e, ok := m.entries[sessionID]
	var data []byte
	if ok {
		// Save replaces e.data under the lock
		data = e.data
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	// sessions are copied through JSON so callers never share maps
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	if s.FlowData == nil {
		s.FlowData = map[string]string{}
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil || s.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[s.SessionID]
	if !ok {
		e = &memoryEntry{}
		m.entries[s.SessionID] = e
	}
	e.data = data
	m.armLocked(s.SessionID, e, m.idleTimeout)
	return nil
}

func (m *MemoryStore) ScheduleExpiry(_ context.Context, sessionID string, delay time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[sessionID]
	if !ok {
		return nil
	}
	if delay <= 0 {
		m.deleteLocked(sessionID)
		return nil
	}
	m.armLocked(sessionID, e, delay)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(sessionID)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Session, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	sort.Strings(ids)

	out := make([]Session, 0, len(ids))
	for _, id := range ids {
		s, err := m.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// Close stops every pending timer.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	m.closed = true
	return nil
}

func (m *MemoryStore) armLocked(sessionID string, e *memoryEntry, delay time.Duration) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	if delay <= 0 || m.closed {
		return
	}

	gen := e.gen
	e.timer = time.AfterFunc(delay, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if cur, ok := m.entries[sessionID]; ok && cur.gen == gen {
			delete(m.entries, sessionID)
		}
	})
}

func (m *MemoryStore) deleteLocked(sessionID string) {
	if e, ok := m.entries[sessionID]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(m.entries, sessionID)
	}
}
