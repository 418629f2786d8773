package session

import (
	"context"
	"sync"

	"github.com/mmynk/splitorder/internal/models"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

// Snapshot is the checkout session state held by a MemoryStore.
type Snapshot struct {
	LastQuoteID        string
	LastSuccessQuoteID string
	LastOrderID        string
	LastRealOrderID    string
	LastOrderStatus    models.OrderStatus
	OrderIDs           []string
}

// MemoryStore keeps checkout session state in process.
type MemoryStore struct {
	mu    sync.Mutex
	state Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Snapshot returns a copy of the current state.
func (m *MemoryStore) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.state
	s.OrderIDs = append([]string(nil), m.state.OrderIDs...)
	return s
}

func (m *MemoryStore) set(fn func(s *Snapshot)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.state)
	return nil
}

func (m *MemoryStore) SetLastQuoteID(_ context.Context, cartID string) error {
	return m.set(func(s *Snapshot) { s.LastQuoteID = cartID })
}

func (m *MemoryStore) SetLastSuccessQuoteID(_ context.Context, cartID string) error {
	return m.set(func(s *Snapshot) { s.LastSuccessQuoteID = cartID })
}

func (m *MemoryStore) SetLastOrderID(_ context.Context, orderID string) error {
	return m.set(func(s *Snapshot) { s.LastOrderID = orderID })
}

func (m *MemoryStore) SetLastRealOrderID(_ context.Context, incrementID string) error {
	return m.set(func(s *Snapshot) { s.LastRealOrderID = incrementID })
}

func (m *MemoryStore) SetLastOrderStatus(_ context.Context, status models.OrderStatus) error {
	return m.set(func(s *Snapshot) { s.LastOrderStatus = status })
}

func (m *MemoryStore) SetOrderIDs(_ context.Context, orderIDs []string) error {
	return m.set(func(s *Snapshot) { s.OrderIDs = append([]string(nil), orderIDs...) })
}

// MemoryStores hands out one MemoryStore per session ID.
type MemoryStores struct {
	mu       sync.Mutex
	sessions map[string]*MemoryStore
}

// NewMemoryStores creates an empty MemoryStores.
func NewMemoryStores() *MemoryStores {
	return &MemoryStores{sessions: make(map[string]*MemoryStore)}
}

// ForSession returns the store for sessionID, creating it on first use.
func (m *MemoryStores) ForSession(sessionID string) Store {
	return m.Get(sessionID)
}

// Get returns the concrete store for sessionID, creating it on first use.
func (m *MemoryStores) Get(sessionID string) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		s = NewMemoryStore()
		m.sessions[sessionID] = s
	}
	return s
}
