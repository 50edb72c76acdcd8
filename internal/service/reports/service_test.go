package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/chiyaghar/pos-go/internal/floor"
	"github.com/chiyaghar/pos-go/internal/service/tables"
)

var reportBase = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func testFloor() *tables.Service {
	state := floor.Seeded()

	tick := 0
	state.Now = func() time.Time {
		tick++
		return reportBase.Add(time.Duration(tick) * time.Minute)
	}
	seq := 0
	state.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	return tables.New(state, nil, nil)
}

func checkout(t *testing.T, svc *tables.Service, tableID, menuItemID string, qty int, method domain.PaymentMethod, discount float64) *domain.CompletedOrder {
	t.Helper()
	ctx := context.Background()

	_, err := svc.AddOrderItem(ctx, tableID, menuItemID, qty)
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, tableID, method, discount)
	require.NoError(t, err)
	return order
}

func TestSummaryAggregatesLedger(t *testing.T) {
	floorSvc := testFloor()
	ctx := context.Background()

	menu := floorSvc.Menu(ctx)
	require.NotEmpty(t, menu)
	item := menu[0]

	checkout(t, floorSvc, "table-1", item.ID, 2, domain.PaymentCash, 0)
	checkout(t, floorSvc, "table-2", item.ID, 1, domain.PaymentCard, 5)
	floorSvc.AddExpense(ctx, domain.Expense{StaffID: "staff-1", Category: "supplies", Amount: 40})

	svc := New(floorSvc, nil, Config{})
	sum, err := svc.Summary(ctx, reportBase, reportBase)
	require.NoError(t, err)

	wantRevenue := item.Price*3 - 5
	assert.Equal(t, 2, sum.TotalOrders)
	assert.Equal(t, 2, sum.CompletedOrders)
	assert.Equal(t, 0, sum.CancelledOrders)
	assert.InDelta(t, wantRevenue, sum.TotalRevenue, 1e-9)
	assert.InDelta(t, 5, sum.TotalDiscount, 1e-9)
	assert.InDelta(t, wantRevenue/2, sum.AvgOrderValue, 1e-9)
	assert.InDelta(t, 40, sum.TotalExpenses, 1e-9)
	assert.InDelta(t, wantRevenue-40, sum.NetProfit, 1e-9)

	require.Len(t, sum.DailySales, 1)
	assert.Equal(t, "2025-03-01", sum.DailySales[0].Date)
	assert.Equal(t, 2, sum.DailySales[0].Orders)

	// item rows follow the catalog and include zero rows
	require.Len(t, sum.ItemSales, len(menu))
	assert.Equal(t, item.ID, sum.ItemSales[0].MenuItemID)
	assert.Equal(t, 3, sum.ItemSales[0].Quantity)
	assert.Equal(t, 0, sum.ItemSales[1].Quantity)

	require.Len(t, sum.PaymentMethods, 3)
	assert.Equal(t, domain.PaymentCash, sum.PaymentMethods[0].Method)
	assert.Equal(t, 1, sum.PaymentMethods[0].Count)
	assert.Equal(t, 1, sum.PaymentMethods[1].Count)
	assert.Equal(t, 0, sum.PaymentMethods[2].Count)
}

func TestSummaryZeroFillsEmptyDays(t *testing.T) {
	svc := New(testFloor(), nil, Config{})

	sum, err := svc.Summary(context.Background(), reportBase, reportBase.AddDate(0, 0, 2))
	require.NoError(t, err)

	require.Len(t, sum.DailySales, 3)
	for _, d := range sum.DailySales {
		assert.Zero(t, d.Orders)
		assert.Zero(t, d.Revenue)
	}
	assert.Zero(t, sum.TotalOrders)
	assert.Zero(t, sum.AvgOrderValue)
}

func TestSummaryExcludesOrdersOutsideRange(t *testing.T) {
	floorSvc := testFloor()
	ctx := context.Background()
	item := floorSvc.Menu(ctx)[0]

	checkout(t, floorSvc, "table-1", item.ID, 1, domain.PaymentCash, 0)

	svc := New(floorSvc, nil, Config{})
	sum, err := svc.Summary(ctx, reportBase.AddDate(0, 0, 5), reportBase.AddDate(0, 0, 6))
	require.NoError(t, err)

	assert.Zero(t, sum.TotalOrders)
	assert.Zero(t, sum.TotalRevenue)
}

func TestSummaryRejectsInvertedRange(t *testing.T) {
	svc := New(testFloor(), nil, Config{})

	_, err := svc.Summary(context.Background(), reportBase, reportBase.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestSummaryCountsStaffPresence(t *testing.T) {
	floorSvc := testFloor()
	ctx := context.Background()

	staff := floorSvc.Staff(ctx)
	require.NotEmpty(t, staff)
	for _, m := range staff {
		require.NoError(t, floorSvc.MarkAttendance(ctx, m.ID, false))
	}
	require.NoError(t, floorSvc.MarkAttendance(ctx, staff[0].ID, true))

	svc := New(floorSvc, nil, Config{})
	sum, err := svc.Summary(ctx, reportBase, reportBase)
	require.NoError(t, err)

	assert.Equal(t, len(staff), sum.StaffTotal)
	assert.Equal(t, 1, sum.StaffPresent)
}
