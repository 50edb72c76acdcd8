// Package tables serializes access to the in-memory floor state and is the
// only way the rest of the process touches it. Every mutation runs as one
// uninterrupted step under the service mutex; after a successful change the
// service fans out a floor-changed event and drops cached report aggregates,
// mirroring the after-commit hooks of the durable stores.
package tables

import (
	"context"
	"fmt"
	"sync"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/chiyaghar/pos-go/internal/floor"
	redisx "github.com/chiyaghar/pos-go/internal/redis"
	redisrepo "github.com/chiyaghar/pos-go/internal/repository/redis"
)

type Service struct {
	mu     sync.Mutex
	state  *floor.State
	cache  *redisrepo.Cache
	pubsub *redisx.FloorPubSub
}

func New(state *floor.State, cache *redisrepo.Cache, pubsub *redisx.FloorPubSub) *Service {
	if state == nil {
		state = floor.NewState()
	}

	return &Service{
		state:  state,
		cache:  cache,
		pubsub: pubsub,
	}
}

// afterChange runs outside the state lock once a mutation has been applied.
func (s *Service) afterChange(ctx context.Context, tableID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateReports(ctx)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishFloorChanged(ctx, tableID)
	}
}

// Tables returns a snapshot of every table.
func (s *Service) Tables(ctx context.Context) []domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Table, len(s.state.Tables))
	for i, t := range s.state.Tables {
		out[i] = cloneTable(t)
	}
	return out
}

// AddOrderItem places quantity units of a catalog item on the table's open
// order. The line item embeds a copy of the menu item at its current price.
//
// Returns:
//   - *domain.Table: snapshot of the table after the change.
//   - error: tables.ErrMenuItemNotFound, tables.ErrTableNotFound,
//     tables.ErrInvalidQuantity.
func (s *Service) AddOrderItem(ctx context.Context, tableID, menuItemID string, quantity int) (*domain.Table, error) {
	const op = "service.tables.AddOrderItem"

	if quantity <= 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrInvalidQuantity)
	}

	s.mu.Lock()
	item := s.state.MenuItem(menuItemID)
	if item == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrMenuItemNotFound)
	}

	if !s.state.AddOrderItem(tableID, *item, quantity) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
	}

	snap := cloneTable(*s.state.Table(tableID))
	s.mu.Unlock()

	s.afterChange(ctx, tableID)

	return &snap, nil
}

// RemoveOrderItem deletes one line item from the table's order. A line item
// id that is no longer present is tolerated; only a missing table is an
// error.
func (s *Service) RemoveOrderItem(ctx context.Context, tableID, lineItemID string) (*domain.Table, error) {
	const op = "service.tables.RemoveOrderItem"

	s.mu.Lock()
	if !s.state.RemoveOrderItem(tableID, lineItemID) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
	}

	snap := cloneTable(*s.state.Table(tableID))
	s.mu.Unlock()

	s.afterChange(ctx, tableID)

	return &snap, nil
}

// Merge folds the given secondary tables into the main one.
func (s *Service) Merge(ctx context.Context, mainTableID string, secondaryIDs []string) (*domain.Table, error) {
	const op = "service.tables.Merge"

	if len(secondaryIDs) == 0 {
		return nil, fmt.Errorf("%s: no tables to merge", op)
	}

	s.mu.Lock()
	if !s.state.MergeTables(mainTableID, secondaryIDs) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
	}

	snap := cloneTable(*s.state.Table(mainTableID))
	s.mu.Unlock()

	s.afterChange(ctx, mainTableID)

	return &snap, nil
}

// Unmerge dissolves a merge; the main table keeps the combined order.
//
// Returns:
//   - error: tables.ErrTableNotFound when the id is unknown.
//   - error: tables.ErrTableNotMerged when the table exists but holds no
//     merge.
func (s *Service) Unmerge(ctx context.Context, mainTableID string) (*domain.Table, error) {
	const op = "service.tables.Unmerge"

	s.mu.Lock()
	if s.state.Table(mainTableID) == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
	}

	if !s.state.UnmergeTables(mainTableID) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotMerged)
	}

	snap := cloneTable(*s.state.Table(mainTableID))
	s.mu.Unlock()

	s.afterChange(ctx, mainTableID)

	return &snap, nil
}

// Shift moves the whole open order from one table to another and frees the
// source.
func (s *Service) Shift(ctx context.Context, fromTableID, toTableID string) (*domain.Table, error) {
	const op = "service.tables.Shift"

	s.mu.Lock()
	if !s.state.ShiftTable(fromTableID, toTableID) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
	}

	var snap *domain.Table
	if to := s.state.Table(toTableID); to != nil {
		t := cloneTable(*to)
		snap = &t
	}
	s.mu.Unlock()

	s.afterChange(ctx, fromTableID)

	return snap, nil
}

// Checkout settles the table's open order into one immutable ledger entry
// and resets the table. The total may be negative when the discount exceeds
// the subtotal; no floor is applied.
func (s *Service) Checkout(ctx context.Context, tableID string, method domain.PaymentMethod, discount float64) (*domain.CompletedOrder, error) {
	const op = "service.tables.Checkout"

	s.mu.Lock()
	order := s.state.Checkout(tableID, method, discount)
	if order == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrTableNotFound)
	}

	snap := cloneOrder(*order)
	s.mu.Unlock()

	s.afterChange(ctx, tableID)

	return &snap, nil
}

// Ledger returns a snapshot of all completed orders, oldest first.
func (s *Service) Ledger(ctx context.Context) []domain.CompletedOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CompletedOrder, len(s.state.Orders))
	for i, o := range s.state.Orders {
		out[i] = cloneOrder(o)
	}
	return out
}

func (s *Service) Menu(ctx context.Context) []domain.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.MenuItem, len(s.state.Menu))
	copy(out, s.state.Menu)
	return out
}

func (s *Service) AddMenuItem(ctx context.Context, item domain.MenuItem) domain.MenuItem {
	s.mu.Lock()
	added := s.state.AddMenuItem(item)
	s.mu.Unlock()

	s.afterChange(ctx, "")

	return added
}

func (s *Service) UpdateMenuItem(ctx context.Context, id string, upd floor.MenuItemUpdate) (*domain.MenuItem, error) {
	const op = "service.tables.UpdateMenuItem"

	s.mu.Lock()
	if !s.state.UpdateMenuItem(id, upd) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s:%w", op, ErrMenuItemNotFound)
	}

	snap := *s.state.MenuItem(id)
	s.mu.Unlock()

	s.afterChange(ctx, "")

	return &snap, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id string) error {
	const op = "service.tables.DeleteMenuItem"

	s.mu.Lock()
	ok := s.state.DeleteMenuItem(id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s:%w", op, ErrMenuItemNotFound)
	}

	s.afterChange(ctx, "")

	return nil
}

func (s *Service) Inventory(ctx context.Context) []domain.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.InventoryItem, len(s.state.Inventory))
	copy(out, s.state.Inventory)
	return out
}

func (s *Service) UpdateInventory(ctx context.Context, id string, quantity float64) error {
	const op = "service.tables.UpdateInventory"

	s.mu.Lock()
	ok := s.state.UpdateInventory(id, quantity)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s:%w", op, ErrInventoryNotFound)
	}

	return nil
}

func (s *Service) Staff(ctx context.Context) []domain.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.StaffMember, len(s.state.Staff))
	copy(out, s.state.Staff)
	return out
}

func (s *Service) MarkAttendance(ctx context.Context, staffID string, present bool) error {
	const op = "service.tables.MarkAttendance"

	s.mu.Lock()
	ok := s.state.MarkAttendance(staffID, present)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s:%w", op, ErrStaffNotFound)
	}

	return nil
}

func (s *Service) ClockInOut(ctx context.Context, staffID string, action floor.ClockAction) error {
	const op = "service.tables.ClockInOut"

	s.mu.Lock()
	ok := s.state.ClockInOut(staffID, action)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s:%w", op, ErrStaffNotFound)
	}

	return nil
}

func (s *Service) Expenses(ctx context.Context) []domain.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Expense, len(s.state.Expenses))
	copy(out, s.state.Expenses)
	return out
}

func (s *Service) AddExpense(ctx context.Context, e domain.Expense) domain.Expense {
	s.mu.Lock()
	added := s.state.AddExpense(e)
	s.mu.Unlock()

	return added
}

func cloneTable(t domain.Table) domain.Table {
	cp := t
	cp.Order = append([]domain.OrderLineItem(nil), t.Order...)
	cp.MergedWith = append([]string(nil), t.MergedWith...)
	return cp
}

func cloneOrder(o domain.CompletedOrder) domain.CompletedOrder {
	cp := o
	cp.Items = append([]domain.OrderLineItem(nil), o.Items...)
	return cp
}
