package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fuelops/atgmon/core/model"
)

// OrderLedger is the canonical in-memory order record store. Mutation happens
// only through Upsert so no caller can alias the internal map.
type OrderLedger struct {
	mu   sync.RWMutex
	byID map[string]model.Order
	seq  int
}

// NewOrderLedger returns an empty ledger.
func NewOrderLedger() *OrderLedger {
	return &OrderLedger{byID: map[string]model.Order{}}
}

// NextOrderNumber issues a sequential order number.
func (l *OrderLedger) NextOrderNumber() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return fmt.Sprintf("ORD-%06d", l.seq)
}

// Upsert stores the order keyed by its ID.
func (l *OrderLedger) Upsert(o model.Order) {
	l.mu.Lock()
	l.byID[o.ID] = o
	l.mu.Unlock()
}

// ByID looks an order up by its ID.
func (l *OrderLedger) ByID(id string) (model.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	o, ok := l.byID[id]
	return o, ok
}

// ByNumber looks an order up by its order number.
func (l *OrderLedger) ByNumber(number string) (model.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.byID {
		if o.OrderNumber == number {
			return o, true
		}
	}
	return model.Order{}, false
}

// List returns orders, optionally restricted to a site, oldest first.
func (l *OrderLedger) List(siteID string) []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := make([]model.Order, 0, len(l.byID))
	for _, o := range l.byID {
		if siteID != "" && o.SiteID != siteID {
			continue
		}
		res = append(res, o)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].OrderNumber < res[j].OrderNumber
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

// LinkStore keeps user-authored delivery links keyed by delivery event ID.
// Links are upserted in place; there is no unlink operation.
type LinkStore struct {
	mu   sync.RWMutex
	data map[string]model.DeliveryLink
}

// NewLinkStore returns an empty link store.
func NewLinkStore() *LinkStore {
	return &LinkStore{data: map[string]model.DeliveryLink{}}
}

// Set creates or replaces the link for a delivery.
func (s *LinkStore) Set(link model.DeliveryLink) {
	s.mu.Lock()
	s.data[link.DeliveryID] = link
	s.mu.Unlock()
}

// Get returns the link for a delivery, if any.
func (s *LinkStore) Get(deliveryID string) (model.DeliveryLink, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[deliveryID]
	return l, ok
}

// All returns every link sorted by delivery ID.
func (s *LinkStore) All() []model.DeliveryLink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.DeliveryLink, 0, len(s.data))
	for _, l := range s.data {
		res = append(res, l)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].DeliveryID < res[j].DeliveryID })
	return res
}
