// Package floor holds the in-memory floor state of the restaurant: the
// tables with their open orders, the completed-order ledger, the menu
// catalog, and the keyed collections for inventory, staff and expenses.
//
// Every operation is synchronous and total: an operation that references a
// missing id leaves the state untouched and reports the miss through its
// return value instead of failing. Callers own the locking; State itself is
// not safe for concurrent use.
package floor

import (
	"time"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/google/uuid"
)

type State struct {
	Tables    []domain.Table
	Orders    []domain.CompletedOrder
	Menu      []domain.MenuItem
	Inventory []domain.InventoryItem
	Staff     []domain.StaffMember
	Expenses  []domain.Expense

	// Now and NewID are overridable for deterministic tests.
	Now   func() time.Time
	NewID func() string
}

func NewState() *State {
	return &State{
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// Table returns a pointer into the state's table slice, or nil when the id
// is unknown.
func (s *State) Table(id string) *domain.Table {
	for i := range s.Tables {
		if s.Tables[i].ID == id {
			return &s.Tables[i]
		}
	}
	return nil
}

// AddOrderItem appends item to the table's open order, or bumps the
// quantity of an existing line that references the same menu item id. An
// available table becomes occupied and gets its start time stamped once.
// Returns false and changes nothing when the table id is unknown.
func (s *State) AddOrderItem(tableID string, item domain.MenuItem, quantity int) bool {
	t := s.Table(tableID)
	if t == nil {
		return false
	}

	found := false
	for i := range t.Order {
		if t.Order[i].MenuItem.ID == item.ID {
			t.Order[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		t.Order = append(t.Order, domain.OrderLineItem{
			ID:       s.NewID(),
			MenuItem: item,
			Quantity: quantity,
		})
	}

	if t.Status == domain.TableAvailable {
		t.Status = domain.TableOccupied
	}
	if t.StartTime == nil {
		now := s.Now()
		t.StartTime = &now
	}

	return true
}

// RemoveOrderItem deletes the line item with the given id from the table's
// order. Removing the last line frees the table. An unknown line item id is
// a no-op; only an unknown table id returns false.
func (s *State) RemoveOrderItem(tableID, lineItemID string) bool {
	t := s.Table(tableID)
	if t == nil {
		return false
	}

	kept := t.Order[:0]
	for _, li := range t.Order {
		if li.ID != lineItemID {
			kept = append(kept, li)
		}
	}
	t.Order = kept

	if len(t.Order) == 0 {
		t.Status = domain.TableAvailable
		t.StartTime = nil
	}

	return true
}

// MergeTables folds the orders of the secondary tables into the main one.
// The main table keeps its own items first, then the secondaries' items in
// the order given. Secondaries are emptied and left as placeholders pointing
// back at the main table. Secondary ids that do not resolve contribute
// nothing but are still recorded in MergedWith, matching the floor rules:
// no validation of the merge graph is performed.
func (s *State) MergeTables(mainTableID string, secondaryIDs []string) bool {
	main := s.Table(mainTableID)
	if main == nil {
		return false
	}

	merged := main.Order
	for _, id := range secondaryIDs {
		if sec := s.Table(id); sec != nil {
			merged = append(merged, sec.Order...)
		}
	}

	main.Order = merged
	main.Status = domain.TableMerged
	main.MergedWith = secondaryIDs
	main.MergeRole = domain.MergeMain

	for _, id := range secondaryIDs {
		sec := s.Table(id)
		if sec == nil || sec.ID == mainTableID {
			continue
		}
		sec.Order = nil
		sec.StartTime = nil
		sec.Status = domain.TableMerged
		sec.MergeRole = domain.MergeSecondary
		sec.MainTableID = mainTableID
	}

	return true
}

// UnmergeTables dissolves a merge. The main table keeps the combined order
// (items are never redistributed back) and becomes occupied; each former
// secondary returns to available with an empty order. Returns false when the
// table is unknown or is not a merged main table.
func (s *State) UnmergeTables(mainTableID string) bool {
	main := s.Table(mainTableID)
	if main == nil || len(main.MergedWith) == 0 {
		return false
	}

	secondaries := main.MergedWith

	main.Status = domain.TableOccupied
	main.MergedWith = nil
	main.MergeRole = ""

	for _, id := range secondaries {
		sec := s.Table(id)
		if sec == nil || sec.ID == mainTableID {
			continue
		}
		sec.Order = nil
		sec.Status = domain.TableAvailable
		sec.StartTime = nil
		sec.MergeRole = ""
		sec.MainTableID = ""
	}

	return true
}

// ShiftTable moves the whole open order (and start time) from one table to
// another. The target becomes occupied and the source is freed. Returns
// false when the source table is unknown.
func (s *State) ShiftTable(fromTableID, toTableID string) bool {
	from := s.Table(fromTableID)
	if from == nil {
		return false
	}

	order := from.Order
	startTime := from.StartTime

	if to := s.Table(toTableID); to != nil {
		to.Order = order
		to.Status = domain.TableOccupied
		to.StartTime = startTime
		if to.ID == from.ID {
			return true
		}
	}

	from.Order = nil
	from.Status = domain.TableAvailable
	from.StartTime = nil

	return true
}

// Checkout settles a table: it appends one completed order to the ledger
// with total = sum(price*quantity) - discount and resets the table. The total
// is not floored at zero; a discount above the subtotal yields a negative
// total. Returns the ledger entry, or nil when the table is unknown.
func (s *State) Checkout(tableID string, method domain.PaymentMethod, discount float64) *domain.CompletedOrder {
	t := s.Table(tableID)
	if t == nil {
		return nil
	}

	var subtotal float64
	for _, li := range t.Order {
		subtotal += li.MenuItem.Price * float64(li.Quantity)
	}

	items := make([]domain.OrderLineItem, len(t.Order))
	copy(items, t.Order)

	order := domain.CompletedOrder{
		ID:            s.NewID(),
		TableNumber:   t.Number,
		Items:         items,
		Total:         subtotal - discount,
		Status:        domain.OrderCompleted,
		PaymentMethod: method,
		Discount:      discount,
		Timestamp:     s.Now(),
	}
	s.Orders = append(s.Orders, order)

	t.Order = nil
	t.Status = domain.TableAvailable
	t.StartTime = nil
	t.MergedWith = nil

	return &s.Orders[len(s.Orders)-1]
}

// AddMenuItem adds a catalog entry and returns it with its generated id.
func (s *State) AddMenuItem(item domain.MenuItem) domain.MenuItem {
	item.ID = s.NewID()
	s.Menu = append(s.Menu, item)
	return item
}

// MenuItemUpdate carries the fields of a partial catalog edit; nil fields
// are left unchanged.
type MenuItemUpdate struct {
	Name        *string
	Category    *string
	Price       *float64
	Available   *bool
	Description *string
}

func (s *State) UpdateMenuItem(id string, upd MenuItemUpdate) bool {
	for i := range s.Menu {
		if s.Menu[i].ID != id {
			continue
		}
		if upd.Name != nil {
			s.Menu[i].Name = *upd.Name
		}
		if upd.Category != nil {
			s.Menu[i].Category = *upd.Category
		}
		if upd.Price != nil {
			s.Menu[i].Price = *upd.Price
		}
		if upd.Available != nil {
			s.Menu[i].Available = *upd.Available
		}
		if upd.Description != nil {
			s.Menu[i].Description = *upd.Description
		}
		return true
	}
	return false
}

func (s *State) DeleteMenuItem(id string) bool {
	for i := range s.Menu {
		if s.Menu[i].ID == id {
			s.Menu = append(s.Menu[:i], s.Menu[i+1:]...)
			return true
		}
	}
	return false
}

func (s *State) MenuItem(id string) *domain.MenuItem {
	for i := range s.Menu {
		if s.Menu[i].ID == id {
			return &s.Menu[i]
		}
	}
	return nil
}

// UpdateInventory sets the current stock level of an item and stamps it.
func (s *State) UpdateInventory(id string, quantity float64) bool {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			s.Inventory[i].CurrentStock = quantity
			s.Inventory[i].LastUpdated = s.Now()
			return true
		}
	}
	return false
}

func (s *State) MarkAttendance(staffID string, present bool) bool {
	for i := range s.Staff {
		if s.Staff[i].ID == staffID {
			s.Staff[i].Present = present
			return true
		}
	}
	return false
}

type ClockAction string

const (
	ClockIn  ClockAction = "in"
	ClockOut ClockAction = "out"
)

// ClockInOut records a clock-in or clock-out timestamp for a staff member
// and keeps the presence flag in step with the action.
func (s *State) ClockInOut(staffID string, action ClockAction) bool {
	for i := range s.Staff {
		if s.Staff[i].ID != staffID {
			continue
		}
		now := s.Now()
		if action == ClockIn {
			s.Staff[i].ClockIn = &now
			s.Staff[i].Present = true
		} else {
			s.Staff[i].ClockOut = &now
			s.Staff[i].Present = false
		}
		return true
	}
	return false
}

func (s *State) AddExpense(e domain.Expense) domain.Expense {
	e.ID = s.NewID()
	if e.Date.IsZero() {
		e.Date = s.Now()
	}
	s.Expenses = append(s.Expenses, e)
	return e
}
