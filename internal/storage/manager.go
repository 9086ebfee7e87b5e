// Package storage wires the persistence backends behind one manager.
package storage

import (
	"fmt"

	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/storage/badger"
	"github.com/SynTaxOp/Stonks/internal/storage/memory"
)

// Manager implements interfaces.StorageManager over a single backend.
type Manager struct {
	transactions interfaces.TransactionStorage
	holdings     interfaces.HoldingStorage
	sips         interfaces.SIPStorage
	closer       func() error
}

// NewManager creates a BadgerHold-backed manager at the configured path.
func NewManager(config *common.Config, logger *common.Logger) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage initialized")

	return &Manager{
		transactions: badger.NewTransactionStorage(store, logger),
		holdings:     badger.NewHoldingStorage(store, logger),
		sips:         badger.NewSIPStorage(store, logger),
		closer:       store.Close,
	}, nil
}

// NewMemoryManager creates an in-memory manager, used in tests.
func NewMemoryManager() *Manager {
	return &Manager{
		transactions: memory.NewTransactionStorage(),
		holdings:     memory.NewHoldingStorage(),
		sips:         memory.NewSIPStorage(),
		closer:       func() error { return nil },
	}
}

func (m *Manager) Transactions() interfaces.TransactionStorage { return m.transactions }
func (m *Manager) Holdings() interfaces.HoldingStorage         { return m.holdings }
func (m *Manager) SIPs() interfaces.SIPStorage                 { return m.sips }

// Close releases the underlying backend.
func (m *Manager) Close() error {
	return m.closer()
}
