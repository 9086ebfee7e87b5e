// Package memory provides in-memory storage implementations, primarily for
// tests. All methods are safe for concurrent use.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SynTaxOp/Stonks/internal/models"
)

type transactionStorage struct {
	mu  sync.RWMutex
	txs map[string]models.Transaction
}

// NewTransactionStorage creates an empty in-memory transaction store.
func NewTransactionStorage() *transactionStorage {
	return &transactionStorage{txs: make(map[string]models.Transaction)}
}

func (s *transactionStorage) Get(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, fmt.Errorf("transaction '%s' not found", id)
	}
	return &tx, nil
}

func (s *transactionStorage) Save(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[tx.ID] = *tx
	return nil
}

func (s *transactionStorage) Update(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[tx.ID]; !ok {
		return fmt.Errorf("transaction '%s' not found", tx.ID)
	}
	s.txs[tx.ID] = *tx
	return nil
}

func (s *transactionStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.txs, id)
	return nil
}

func (s *transactionStorage) ByUser(_ context.Context, userID string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Transaction
	for id := range s.txs {
		tx := s.txs[id]
		if tx.UserID == userID {
			out = append(out, &tx)
		}
	}
	return out, nil
}

func (s *transactionStorage) collect(userID string, fundID int) []*models.Transaction {
	var out []*models.Transaction
	for id := range s.txs {
		tx := s.txs[id]
		if tx.UserID == userID && tx.FundID == fundID {
			out = append(out, &tx)
		}
	}
	return out
}

func (s *transactionStorage) ByUserAndFund(_ context.Context, userID string, fundID int) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(userID, fundID)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *transactionStorage) ByUserAndFundDesc(_ context.Context, userID string, fundID int) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.collect(userID, fundID)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *transactionStorage) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, tx := range s.txs {
		if tx.UserID == userID {
			delete(s.txs, id)
			count++
		}
	}
	return count, nil
}

func (s *transactionStorage) DeleteByUserAndFund(_ context.Context, userID string, fundID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, tx := range s.txs {
		if tx.UserID == userID && tx.FundID == fundID {
			delete(s.txs, id)
			count++
		}
	}
	return count, nil
}

type holdingStorage struct {
	mu       sync.RWMutex
	holdings map[string]models.Holding
}

// NewHoldingStorage creates an empty in-memory holding store.
func NewHoldingStorage() *holdingStorage {
	return &holdingStorage{holdings: make(map[string]models.Holding)}
}

func (s *holdingStorage) Get(_ context.Context, id string) (*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holdings[id]
	if !ok {
		return nil, fmt.Errorf("holding '%s' not found", id)
	}
	return &h, nil
}

func (s *holdingStorage) GetByUserAndFund(_ context.Context, userID string, fundID int) (*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.holdings {
		h := s.holdings[id]
		if h.UserID == userID && h.FundID == fundID {
			return &h, nil
		}
	}
	return nil, fmt.Errorf("holding for user '%s' fund %d not found", userID, fundID)
}

func (s *holdingStorage) ByUser(_ context.Context, userID string) ([]*models.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Holding
	for id := range s.holdings {
		h := s.holdings[id]
		if h.UserID == userID {
			out = append(out, &h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FundID < out[j].FundID })
	return out, nil
}

func (s *holdingStorage) Save(_ context.Context, holding *models.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings[holding.ID] = *holding
	return nil
}

func (s *holdingStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holdings, id)
	return nil
}

func (s *holdingStorage) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, h := range s.holdings {
		if h.UserID == userID {
			delete(s.holdings, id)
			count++
		}
	}
	return count, nil
}

type sipStorage struct {
	mu   sync.RWMutex
	sips map[string]models.SIP
}

// NewSIPStorage creates an empty in-memory SIP store.
func NewSIPStorage() *sipStorage {
	return &sipStorage{sips: make(map[string]models.SIP)}
}

func (s *sipStorage) Get(_ context.Context, id string) (*models.SIP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sip, ok := s.sips[id]
	if !ok {
		return nil, fmt.Errorf("SIP '%s' not found", id)
	}
	return &sip, nil
}

func (s *sipStorage) Save(_ context.Context, sip *models.SIP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sips[sip.ID] = *sip
	return nil
}

func (s *sipStorage) ByUser(_ context.Context, userID string) ([]models.SIP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SIP
	for _, sip := range s.sips {
		if sip.UserID == userID {
			out = append(out, sip)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *sipStorage) ByUserAndFund(_ context.Context, userID string, fundID int) ([]models.SIP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.SIP
	for _, sip := range s.sips {
		if sip.UserID == userID && sip.FundID == fundID {
			out = append(out, sip)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *sipStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sips, id)
	return nil
}

func (s *sipStorage) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, sip := range s.sips {
		if sip.UserID == userID {
			delete(s.sips, id)
			count++
		}
	}
	return count, nil
}

func (s *sipStorage) DeleteByUserAndFund(_ context.Context, userID string, fundID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, sip := range s.sips {
		if sip.UserID == userID && sip.FundID == fundID {
			delete(s.sips, id)
			count++
		}
	}
	return count, nil
}
