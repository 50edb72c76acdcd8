package tables

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/chiyaghar/pos-go/internal/floor"
)

// The service runs without redis in tests; cache and pubsub are optional
// and afterChange skips them when nil.
func testService() *Service {
	state := floor.Seeded()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	state.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	state.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return New(state, nil, nil)
}

func firstMenuItemID(t *testing.T, svc *Service) string {
	t.Helper()
	menu := svc.Menu(context.Background())
	require.NotEmpty(t, menu)
	return menu[0].ID
}

func TestAddOrderItemReturnsSnapshot(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	table, err := svc.AddOrderItem(ctx, "table-1", firstMenuItemID(t, svc), 2)
	require.NoError(t, err)
	require.Len(t, table.Order, 1)
	assert.Equal(t, domain.TableOccupied, table.Status)
	assert.Equal(t, 2, table.Order[0].Quantity)

	// mutating the snapshot must not leak into the state
	table.Order[0].Quantity = 99
	fresh, err := svc.AddOrderItem(ctx, "table-1", firstMenuItemID(t, svc), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.Order[0].Quantity)
}

func TestAddOrderItemErrors(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	_, err := svc.AddOrderItem(ctx, "table-1", "no-such-item", 1)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	_, err = svc.AddOrderItem(ctx, "no-such-table", firstMenuItemID(t, svc), 1)
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = svc.AddOrderItem(ctx, "table-1", firstMenuItemID(t, svc), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRemoveOrderItemUnknownTable(t *testing.T) {
	svc := testService()

	_, err := svc.RemoveOrderItem(context.Background(), "no-such-table", "line-1")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestMergeRequiresSecondaries(t *testing.T) {
	svc := testService()

	_, err := svc.Merge(context.Background(), "table-1", nil)
	assert.Error(t, err)
}

func TestUnmergeDistinguishesMissingFromNotMerged(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	_, err := svc.Unmerge(ctx, "no-such-table")
	assert.ErrorIs(t, err, ErrTableNotFound)

	_, err = svc.Unmerge(ctx, "table-1")
	assert.ErrorIs(t, err, ErrTableNotMerged)
}

func TestMergeAndUnmergeRoundTrip(t *testing.T) {
	svc := testService()
	ctx := context.Background()
	itemID := firstMenuItemID(t, svc)

	_, err := svc.AddOrderItem(ctx, "table-1", itemID, 1)
	require.NoError(t, err)
	_, err = svc.AddOrderItem(ctx, "table-2", itemID, 2)
	require.NoError(t, err)

	merged, err := svc.Merge(ctx, "table-1", []string{"table-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"table-2"}, merged.MergedWith)
	assert.Equal(t, domain.MergeMain, merged.MergeRole)

	main, err := svc.Unmerge(ctx, "table-1")
	require.NoError(t, err)
	assert.Empty(t, main.MergedWith)

	// merged lines are concatenated, never coalesced across tables
	require.Len(t, main.Order, 2)
	assert.Equal(t, 1, main.Order[0].Quantity)
	assert.Equal(t, 2, main.Order[1].Quantity)
}

func TestShiftReturnsDestinationSnapshot(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	_, err := svc.AddOrderItem(ctx, "table-1", firstMenuItemID(t, svc), 1)
	require.NoError(t, err)

	dest, err := svc.Shift(ctx, "table-1", "table-5")
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, "table-5", dest.ID)
	assert.Equal(t, domain.TableOccupied, dest.Status)
}

func TestCheckoutAppendsToLedger(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	_, err := svc.AddOrderItem(ctx, "table-1", firstMenuItemID(t, svc), 2)
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, "table-1", domain.PaymentCash, 0)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.OrderCompleted, order.Status)

	ledger := svc.Ledger(ctx)
	require.Len(t, ledger, 1)
	assert.Equal(t, order.ID, ledger[0].ID)

	// ledger snapshot must be detached from the stored entry
	ledger[0].Items[0].Quantity = 99
	assert.Equal(t, 2, svc.Ledger(ctx)[0].Items[0].Quantity)
}

func TestCheckoutUnknownTable(t *testing.T) {
	svc := testService()

	_, err := svc.Checkout(context.Background(), "no-such-table", domain.PaymentCash, 0)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestMenuLifecycle(t *testing.T) {
	svc := testService()
	ctx := context.Background()
	before := len(svc.Menu(ctx))

	added := svc.AddMenuItem(ctx, domain.MenuItem{Name: "Lemon Tea", Category: "tea", Price: 30, Available: true})
	require.NotEmpty(t, added.ID)
	assert.Len(t, svc.Menu(ctx), before+1)

	newPrice := 35.0
	updated, err := svc.UpdateMenuItem(ctx, added.ID, floor.MenuItemUpdate{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 35.0, updated.Price)

	_, err = svc.UpdateMenuItem(ctx, "no-such-item", floor.MenuItemUpdate{Price: &newPrice})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	require.NoError(t, svc.DeleteMenuItem(ctx, added.ID))
	assert.ErrorIs(t, svc.DeleteMenuItem(ctx, added.ID), ErrMenuItemNotFound)
}

func TestInventoryAndStaffErrors(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateInventory(ctx, "no-such-item", 5), ErrInventoryNotFound)
	assert.ErrorIs(t, svc.MarkAttendance(ctx, "no-such-staff", true), ErrStaffNotFound)
	assert.ErrorIs(t, svc.ClockInOut(ctx, "no-such-staff", floor.ClockIn), ErrStaffNotFound)
}

func TestAddExpenseAssignsIDAndDate(t *testing.T) {
	svc := testService()
	ctx := context.Background()

	e := svc.AddExpense(ctx, domain.Expense{StaffID: "staff-1", Category: "supplies", Amount: 120})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Date.IsZero())
	assert.Len(t, svc.Expenses(ctx), 1)
}
