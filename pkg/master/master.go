package master

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/open-dnp3/godnp3/pkg/config"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// Master owns every Association reachable over one channel, keyed by
// outstation link address. Generalized from the teacher's
// pkg/network.Network, which keys one *node.NodeProcessor per remote
// node id on a shared CAN bus; here one Master plays that role for a
// DNP3 channel with potentially many outstations multi-dropped on it.
type Master struct {
	mu           sync.RWMutex
	logger       *slog.Logger
	cfg          config.MasterConfig
	sender       Sender
	associations map[uint16]*Association
}

// NewMaster builds a Master bound to sender, the channel that frames
// will actually travel over once pkg/channel provides one.
func NewMaster(cfg config.MasterConfig, sender Sender, logger *slog.Logger) *Master {
	if logger == nil {
		logger = slog.Default()
	}
	return &Master{
		logger:       logger,
		cfg:          cfg,
		sender:       sender,
		associations: make(map[uint16]*Association),
	}
}

// AddAssociation creates, registers, and starts an Association for one
// outstation address. It returns an error if an association for that
// address already exists.
func (m *Master) AddAssociation(cfg config.AssociationConfig, handler Handler) (*Association, error) {
	addr := cfg.OutstationAddress.Value()

	m.mu.Lock()
	if _, exists := m.associations[addr]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("master: association for address %d already exists", addr)
	}
	assoc := NewAssociation(cfg, m.cfg, m.sender, handler, m.logger.With("outstation", addr))
	m.associations[addr] = assoc
	m.mu.Unlock()

	assoc.Start()
	return assoc, nil
}

// RemoveAssociation closes and forgets the association for addr, if
// one exists.
func (m *Master) RemoveAssociation(addr uint16) {
	m.mu.Lock()
	assoc, ok := m.associations[addr]
	if ok {
		delete(m.associations, addr)
	}
	m.mu.Unlock()
	if ok {
		assoc.Close()
	}
}

// Association looks up the association registered for addr.
func (m *Master) Association(addr uint16) (*Association, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	assoc, ok := m.associations[addr]
	return assoc, ok
}

// Associations returns every registered association, in no particular
// order.
func (m *Master) Associations() []*Association {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Association, 0, len(m.associations))
	for _, assoc := range m.associations {
		out = append(out, assoc)
	}
	return out
}

// HandleSegment routes one reassembled transport segment in from the
// channel layer to the association registered for its source address.
// A segment from an address with no registered association is logged
// and dropped, since the master has no task state to deliver it to.
func (m *Master) HandleSegment(sourceAddress uint16, broadcast bool, header transport.Header, payload []byte) {
	assoc, ok := m.Association(sourceAddress)
	if !ok {
		m.logger.Warn("segment from unknown outstation", "address", sourceAddress)
		return
	}
	assoc.HandleSegment(sourceAddress, broadcast, header, payload)
}

// Close closes every registered association and empties the map.
func (m *Master) Close() {
	m.mu.Lock()
	associations := m.associations
	m.associations = make(map[uint16]*Association)
	m.mu.Unlock()

	for _, assoc := range associations {
		assoc.Close()
	}
}
