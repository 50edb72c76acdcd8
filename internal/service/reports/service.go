// Package reports aggregates the completed-order ledger, expenses and staff
// roster into the sales summary shown on the reporting screen. Summaries are
// cheap to recompute but requested often, so they are cached for a short TTL
// and invalidated whenever the floor changes.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/chiyaghar/pos-go/internal/domain"
	redisx "github.com/chiyaghar/pos-go/internal/redis"
	redisrepo "github.com/chiyaghar/pos-go/internal/repository/redis"
	"github.com/chiyaghar/pos-go/internal/service/tables"
)

type Config struct {
	CacheTTL time.Duration
}

type Service struct {
	floor *tables.Service
	cache *redisrepo.Cache
	cfg   Config
}

func New(floor *tables.Service, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}

	return &Service{
		floor: floor,
		cache: cache,
		cfg:   cfg,
	}
}

type DailySale struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type ItemSale struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type PaymentMethodCount struct {
	Method domain.PaymentMethod `json:"method"`
	Count  int                  `json:"count"`
}

type Summary struct {
	From            string               `json:"from"`
	To              string               `json:"to"`
	TotalRevenue    float64              `json:"total_revenue"`
	TotalOrders     int                  `json:"total_orders"`
	CompletedOrders int                  `json:"completed_orders"`
	CancelledOrders int                  `json:"cancelled_orders"`
	TotalDiscount   float64              `json:"total_discount"`
	AvgOrderValue   float64              `json:"avg_order_value"`
	TotalExpenses   float64              `json:"total_expenses"`
	NetProfit       float64              `json:"net_profit"`
	DailySales      []DailySale          `json:"daily_sales"`
	ItemSales       []ItemSale           `json:"item_sales"`
	PaymentMethods  []PaymentMethodCount `json:"payment_methods"`
	StaffPresent    int                  `json:"staff_present"`
	StaffTotal      int                  `json:"staff_total"`
}

// Summary aggregates the ledger over the inclusive [from, to] date range.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	const op = "service.reports.Summary"

	if to.Before(from) {
		return nil, fmt.Errorf("%s: range end before start", op)
	}

	fromDay := from.Format(time.DateOnly)
	toDay := to.Format(time.DateOnly)

	if s.cache == nil {
		return s.build(ctx, from, to, fromDay, toDay), nil
	}

	key := redisx.KeyReportSummary(fromDay, toDay)

	summary, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, s.cfg.CacheTTL,
		func(ctx context.Context) (*Summary, error) {
			return s.build(ctx, from, to, fromDay, toDay), nil
		})
	if err != nil {
		// Serve the aggregate even when the cache is down.
		return s.build(ctx, from, to, fromDay, toDay), nil
	}

	return summary, nil
}

func (s *Service) build(ctx context.Context, from, to time.Time, fromDay, toDay string) *Summary {
	orders := s.floor.Ledger(ctx)
	expenses := s.floor.Expenses(ctx)
	staff := s.floor.Staff(ctx)
	menu := s.floor.Menu(ctx)

	sum := &Summary{From: fromDay, To: toDay}

	inRange := func(t time.Time) bool {
		day := t.Format(time.DateOnly)
		return day >= fromDay && day <= toDay
	}

	daily := map[string]*DailySale{}
	itemQty := map[string]int{}
	itemRevenue := map[string]float64{}
	methods := map[domain.PaymentMethod]int{}

	for _, o := range orders {
		if !inRange(o.Timestamp) {
			continue
		}

		sum.TotalOrders++
		sum.TotalRevenue += o.Total
		sum.TotalDiscount += o.Discount
		methods[o.PaymentMethod]++

		switch o.Status {
		case domain.OrderCompleted:
			sum.CompletedOrders++
		case domain.OrderCancelled:
			sum.CancelledOrders++
		}

		day := o.Timestamp.Format(time.DateOnly)
		if daily[day] == nil {
			daily[day] = &DailySale{Date: day}
		}
		daily[day].Orders++
		daily[day].Revenue += o.Total

		for _, li := range o.Items {
			itemQty[li.MenuItem.ID] += li.Quantity
			itemRevenue[li.MenuItem.ID] += li.MenuItem.Price * float64(li.Quantity)
		}
	}

	for _, e := range expenses {
		if inRange(e.Date) {
			sum.TotalExpenses += e.Amount
		}
	}

	sum.NetProfit = sum.TotalRevenue - sum.TotalExpenses
	if sum.TotalOrders > 0 {
		sum.AvgOrderValue = sum.TotalRevenue / float64(sum.TotalOrders)
	}

	// one row per day of the requested interval, zero-filled
	for d := dayStart(from); !d.After(dayStart(to)); d = d.AddDate(0, 0, 1) {
		day := d.Format(time.DateOnly)
		if ds := daily[day]; ds != nil {
			sum.DailySales = append(sum.DailySales, *ds)
		} else {
			sum.DailySales = append(sum.DailySales, DailySale{Date: day})
		}
	}

	// catalog order keeps the item rows stable between refreshes
	for _, m := range menu {
		sum.ItemSales = append(sum.ItemSales, ItemSale{
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   itemQty[m.ID],
			Revenue:    itemRevenue[m.ID],
		})
	}

	for _, m := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentCard, domain.PaymentQR} {
		sum.PaymentMethods = append(sum.PaymentMethods, PaymentMethodCount{Method: m, Count: methods[m]})
	}

	sum.StaffTotal = len(staff)
	for _, m := range staff {
		if m.Present {
			sum.StaffPresent++
		}
	}

	return sum
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
