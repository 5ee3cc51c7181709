package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/arloliu/sextant"
	"github.com/arloliu/sextant/types"
)

// MockConnection is a no-op connection for tests.
type MockConnection struct {
	addr   types.ServerAddress
	closed bool
	mu     sync.Mutex
}

var _ sextant.Connection = (*MockConnection)(nil)

// Address returns the server address the connection belongs to.
func (c *MockConnection) Address() types.ServerAddress {
	return c.addr
}

// Close marks the connection closed.
func (c *MockConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true

	return nil
}

// MockServer is an in-memory ClusterableServer for tests.
//
// Tests drive state transitions with SetDescription, which notifies all
// registered listeners with the previous and new description.
type MockServer struct {
	mu        sync.Mutex
	desc      types.ServerDescription
	listeners []sextant.DescriptionChangeListener
	closed    bool
	connErr   error
}

var _ sextant.ClusterableServer = (*MockServer)(nil)

// NewMockServer creates a mock server with the given initial description.
func NewMockServer(desc types.ServerDescription) *MockServer {
	return &MockServer{desc: desc}
}

// Description returns the current description.
func (s *MockServer) Description() types.ServerDescription {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.desc
}

// Connection returns a mock connection, or the configured error.
func (s *MockServer) Connection(_ context.Context) (sextant.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("testutil: server %s is closed", s.desc.Address)
	}
	if s.connErr != nil {
		return nil, s.connErr
	}

	return &MockConnection{addr: s.desc.Address}, nil
}

// AddChangeListener registers a listener for description transitions.
func (s *MockServer) AddChangeListener(listener sextant.DescriptionChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Close marks the server closed. Idempotent.
func (s *MockServer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true

	return nil
}

// IsClosed reports whether Close was called.
func (s *MockServer) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// SetConnectionError makes subsequent Connection calls fail with err.
func (s *MockServer) SetConnectionError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connErr = err
}

// SetDescription replaces the description and notifies listeners.
func (s *MockServer) SetDescription(desc types.ServerDescription) {
	s.mu.Lock()
	prev := s.desc
	s.desc = desc
	listeners := make([]sextant.DescriptionChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	change := sextant.DescriptionChange{Previous: prev, Current: desc}
	for _, l := range listeners {
		l(change)
	}
}

// MockFactory is a ServerFactory that creates MockServers and records
// every creation, so tests can assert on recycle behavior.
type MockFactory struct {
	mu       sync.Mutex
	created  map[types.ServerAddress][]*MockServer
	failWith map[types.ServerAddress]error
	states   map[types.ServerAddress]types.ServerState
}

var _ sextant.ServerFactory = (*MockFactory)(nil)

// NewMockFactory creates an empty factory. Created servers start in state
// ServerUnknown unless SetInitialState configured the address.
func NewMockFactory() *MockFactory {
	return &MockFactory{
		created:  make(map[types.ServerAddress][]*MockServer),
		failWith: make(map[types.ServerAddress]error),
		states:   make(map[types.ServerAddress]types.ServerState),
	}
}

// NewServer implements sextant.ServerFactory.
func (f *MockFactory) NewServer(addr types.ServerAddress) (sextant.ClusterableServer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failWith[addr]; err != nil {
		return nil, err
	}

	srv := NewMockServer(types.ServerDescription{
		Address: addr,
		State:   f.states[addr],
	})
	f.created[addr] = append(f.created[addr], srv)

	return srv, nil
}

// SetInitialState configures the state newly created servers start in.
func (f *MockFactory) SetInitialState(addr types.ServerAddress, state types.ServerState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[addr] = state
}

// FailWith makes NewServer fail for the given address.
func (f *MockFactory) FailWith(addr types.ServerAddress, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith[addr] = err
}

// Created returns every server created for the address, in order.
func (f *MockFactory) Created(addr types.ServerAddress) []*MockServer {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*MockServer, len(f.created[addr]))
	copy(out, f.created[addr])

	return out
}

// Latest returns the most recently created server for the address, or nil.
func (f *MockFactory) Latest(addr types.ServerAddress) *MockServer {
	f.mu.Lock()
	defer f.mu.Unlock()

	servers := f.created[addr]
	if len(servers) == 0 {
		return nil
	}

	return servers[len(servers)-1]
}

// CreateCount returns how many servers were created for the address.
func (f *MockFactory) CreateCount(addr types.ServerAddress) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.created[addr])
}
