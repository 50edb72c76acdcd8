package floor

import (
	"fmt"
	"testing"
	"time"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() *State {
	s := Seeded()

	// deterministic clock and ids
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	s.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	s.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return s
}

func menuItem(s *State, name string) domain.MenuItem {
	for _, m := range s.Menu {
		if m.Name == name {
			return m
		}
	}
	panic("unknown menu item: " + name)
}

func TestAddOrderItemOccupiesTable(t *testing.T) {
	s := testState()
	chai := menuItem(s, "Masala Chai")

	ok := s.AddOrderItem("table-1", chai, 2)
	require.True(t, ok)

	tbl := s.Table("table-1")
	assert.Equal(t, domain.TableOccupied, tbl.Status)
	require.Len(t, tbl.Order, 1)
	assert.Equal(t, 2, tbl.Order[0].Quantity)
	assert.NotNil(t, tbl.StartTime)
}

func TestAddOrderItemCoalescesQuantities(t *testing.T) {
	s := testState()
	chai := menuItem(s, "Masala Chai")

	require.True(t, s.AddOrderItem("table-1", chai, 2))
	require.True(t, s.AddOrderItem("table-1", chai, 3))

	tbl := s.Table("table-1")
	require.Len(t, tbl.Order, 1, "same menu item must never create a second line")
	assert.Equal(t, 5, tbl.Order[0].Quantity)
}

func TestAddOrderItemKeepsFirstStartTime(t *testing.T) {
	s := testState()
	chai := menuItem(s, "Masala Chai")

	s.AddOrderItem("table-1", chai, 1)
	first := *s.Table("table-1").StartTime
	s.AddOrderItem("table-1", chai, 1)

	assert.Equal(t, first, *s.Table("table-1").StartTime)
}

func TestAddOrderItemUnknownTable(t *testing.T) {
	s := testState()
	before := len(s.Tables)

	ok := s.AddOrderItem("table-99", menuItem(s, "Masala Chai"), 1)

	assert.False(t, ok)
	assert.Len(t, s.Tables, before)
	for _, tbl := range s.Tables {
		assert.Empty(t, tbl.Order)
	}
}

func TestAddOrderItemEmbedsMenuItemCopy(t *testing.T) {
	s := testState()
	chai := menuItem(s, "Masala Chai")
	s.AddOrderItem("table-1", chai, 1)

	newPrice := 99.0
	require.True(t, s.UpdateMenuItem(chai.ID, MenuItemUpdate{Price: &newPrice}))

	assert.Equal(t, 25.0, s.Table("table-1").Order[0].MenuItem.Price,
		"placed line items keep the price at the moment of ordering")
}

func TestRemoveOrderItemFreesEmptyTable(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 2)
	lineID := s.Table("table-1").Order[0].ID

	require.True(t, s.RemoveOrderItem("table-1", lineID))

	tbl := s.Table("table-1")
	assert.Empty(t, tbl.Order)
	assert.Equal(t, domain.TableAvailable, tbl.Status)
	assert.Nil(t, tbl.StartTime)
}

func TestRemoveOrderItemKeepsStatusWhenOrderRemains(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 2)
	s.AddOrderItem("table-1", menuItem(s, "Green Tea"), 1)
	lineID := s.Table("table-1").Order[1].ID

	require.True(t, s.RemoveOrderItem("table-1", lineID))

	tbl := s.Table("table-1")
	require.Len(t, tbl.Order, 1)
	assert.Equal(t, domain.TableOccupied, tbl.Status)
	assert.NotNil(t, tbl.StartTime)
}

func TestRemoveOrderItemUnknownLineIsIdempotent(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 2)
	before := append([]domain.OrderLineItem(nil), s.Table("table-1").Order...)

	require.True(t, s.RemoveOrderItem("table-1", "no-such-line"))

	assert.Equal(t, before, s.Table("table-1").Order)
	assert.Equal(t, domain.TableOccupied, s.Table("table-1").Status)
}

func TestMergeTablesConservesItems(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 2)
	s.AddOrderItem("table-2", menuItem(s, "Green Tea"), 1)
	s.AddOrderItem("table-3", menuItem(s, "Butter Tea"), 3)

	require.True(t, s.MergeTables("table-1", []string{"table-2", "table-3"}))

	main := s.Table("table-1")
	require.Len(t, main.Order, 3)
	assert.Equal(t, "Masala Chai", main.Order[0].MenuItem.Name, "main's own items come first")
	assert.Equal(t, "Green Tea", main.Order[1].MenuItem.Name)
	assert.Equal(t, "Butter Tea", main.Order[2].MenuItem.Name)
	assert.Equal(t, domain.TableMerged, main.Status)
	assert.Equal(t, domain.MergeMain, main.MergeRole)
	assert.Equal(t, []string{"table-2", "table-3"}, main.MergedWith)

	for _, id := range []string{"table-2", "table-3"} {
		sec := s.Table(id)
		assert.Empty(t, sec.Order)
		assert.Equal(t, domain.TableMerged, sec.Status)
		assert.Equal(t, domain.MergeSecondary, sec.MergeRole)
		assert.Equal(t, "table-1", sec.MainTableID)
		assert.Nil(t, sec.StartTime)
	}
}

func TestMergeTablesIgnoresUnknownSecondaries(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 1)

	require.True(t, s.MergeTables("table-1", []string{"table-42"}))

	main := s.Table("table-1")
	require.Len(t, main.Order, 1)
	// the id is still recorded; the merge graph is not validated
	assert.Equal(t, []string{"table-42"}, main.MergedWith)
}

func TestUnmergeKeepsItemsOnMain(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 2)
	s.AddOrderItem("table-2", menuItem(s, "Green Tea"), 1)
	require.True(t, s.MergeTables("table-1", []string{"table-2"}))
	combined := append([]domain.OrderLineItem(nil), s.Table("table-1").Order...)

	require.True(t, s.UnmergeTables("table-1"))

	main := s.Table("table-1")
	assert.Equal(t, combined, main.Order, "unmerge must not redistribute items")
	assert.Equal(t, domain.TableOccupied, main.Status)
	assert.Nil(t, main.MergedWith)
	assert.Empty(t, main.MergeRole)

	sec := s.Table("table-2")
	assert.Empty(t, sec.Order)
	assert.Equal(t, domain.TableAvailable, sec.Status)
	assert.Nil(t, sec.StartTime)
	assert.Empty(t, sec.MergeRole)
	assert.Empty(t, sec.MainTableID)
}

func TestUnmergeNonMergedTableIsNoop(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 1)

	assert.False(t, s.UnmergeTables("table-1"))
	assert.Equal(t, domain.TableOccupied, s.Table("table-1").Status)

	assert.False(t, s.UnmergeTables("table-99"))
}

func TestShiftTableTransfersOrder(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 2)
	before := s.Table("table-1")
	order := append([]domain.OrderLineItem(nil), before.Order...)
	start := *before.StartTime

	require.True(t, s.ShiftTable("table-1", "table-5"))

	to := s.Table("table-5")
	assert.Equal(t, order, to.Order)
	assert.Equal(t, domain.TableOccupied, to.Status)
	require.NotNil(t, to.StartTime)
	assert.Equal(t, start, *to.StartTime)

	from := s.Table("table-1")
	assert.Empty(t, from.Order)
	assert.Equal(t, domain.TableAvailable, from.Status)
	assert.Nil(t, from.StartTime)
}

func TestShiftTableUnknownSource(t *testing.T) {
	s := testState()
	assert.False(t, s.ShiftTable("table-99", "table-1"))
	assert.Equal(t, domain.TableAvailable, s.Table("table-1").Status)
}

func TestCheckoutAppendsLedgerEntryAndResetsTable(t *testing.T) {
	s := testState()
	chai := menuItem(s, "Masala Chai")
	s.AddOrderItem("table-1", chai, 2)
	s.AddOrderItem("table-1", chai, 1)

	order := s.Checkout("table-1", domain.PaymentCash, 5)
	require.NotNil(t, order)

	// example from the floor rules: 25*3 - 5 = 70
	assert.Equal(t, 70.0, order.Total)
	assert.Equal(t, domain.OrderCompleted, order.Status)
	assert.Equal(t, domain.PaymentCash, order.PaymentMethod)
	assert.Equal(t, 5.0, order.Discount)
	assert.Equal(t, 1, order.TableNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	require.Len(t, s.Orders, 1)

	tbl := s.Table("table-1")
	assert.Empty(t, tbl.Order)
	assert.Equal(t, domain.TableAvailable, tbl.Status)
	assert.Nil(t, tbl.StartTime)
	assert.Nil(t, tbl.MergedWith)
}

func TestCheckoutAllowsNegativeTotal(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Plain Black Tea"), 1) // 20

	order := s.Checkout("table-1", domain.PaymentCard, 50)
	require.NotNil(t, order)
	assert.Equal(t, -30.0, order.Total)
}

func TestCheckoutUnknownTableWritesNoLedgerEntry(t *testing.T) {
	s := testState()
	assert.Nil(t, s.Checkout("table-99", domain.PaymentCash, 0))
	assert.Empty(t, s.Orders)
}

func TestCheckoutLedgerItemsAreDetached(t *testing.T) {
	s := testState()
	chai := menuItem(s, "Masala Chai")
	s.AddOrderItem("table-1", chai, 1)

	order := s.Checkout("table-1", domain.PaymentCash, 0)
	require.NotNil(t, order)

	s.AddOrderItem("table-1", chai, 5)
	assert.Equal(t, 1, order.Items[0].Quantity, "ledger entries are immutable")
}

func TestAvailableTablesHoldNoOrderState(t *testing.T) {
	s := testState()
	s.AddOrderItem("table-1", menuItem(s, "Masala Chai"), 1)
	s.AddOrderItem("table-2", menuItem(s, "Green Tea"), 1)
	s.MergeTables("table-1", []string{"table-2"})
	s.UnmergeTables("table-1")
	s.Checkout("table-1", domain.PaymentQR, 0)

	for _, tbl := range s.Tables {
		if tbl.Status == domain.TableAvailable {
			assert.Empty(t, tbl.Order, "table %s", tbl.ID)
			assert.Nil(t, tbl.StartTime, "table %s", tbl.ID)
		}
	}
}

func TestMenuCRUD(t *testing.T) {
	s := testState()
	before := len(s.Menu)

	added := s.AddMenuItem(domain.MenuItem{Name: "Iced Lemon Tea", Category: "Cold", Price: 50, Available: true})
	require.NotEmpty(t, added.ID)
	assert.Len(t, s.Menu, before+1)

	name := "Iced Lemon Chai"
	require.True(t, s.UpdateMenuItem(added.ID, MenuItemUpdate{Name: &name}))
	assert.Equal(t, name, s.MenuItem(added.ID).Name)

	assert.False(t, s.UpdateMenuItem("no-such-item", MenuItemUpdate{Name: &name}))

	require.True(t, s.DeleteMenuItem(added.ID))
	assert.Len(t, s.Menu, before)
	assert.False(t, s.DeleteMenuItem(added.ID))
}

func TestInventoryStaffExpenses(t *testing.T) {
	s := testState()

	require.True(t, s.UpdateInventory("1", 20))
	assert.Equal(t, 20.0, s.Inventory[0].CurrentStock)
	assert.False(t, s.UpdateInventory("99", 1))

	require.True(t, s.MarkAttendance("3", true))
	assert.True(t, s.Staff[2].Present)

	require.True(t, s.ClockInOut("3", ClockOut))
	assert.False(t, s.Staff[2].Present)
	assert.NotNil(t, s.Staff[2].ClockOut)
	assert.False(t, s.ClockInOut("99", ClockIn))

	e := s.AddExpense(domain.Expense{StaffID: "1", Category: "Supplies", Amount: 120, Description: "gas refill", Date: s.Now()})
	require.NotEmpty(t, e.ID)
	assert.Len(t, s.Expenses, 1)
}
