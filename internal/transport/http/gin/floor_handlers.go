package httpgin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/chiyaghar/pos-go/internal/floor"
	redisrepo "github.com/chiyaghar/pos-go/internal/repository/redis"
	"github.com/chiyaghar/pos-go/internal/service"
	"github.com/chiyaghar/pos-go/internal/service/tables"
)

// @Summary  List tables
// @Success  200 {object} Response
// @Router   /api/v1/tables [get]
func handleListTables(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"tables": svcs.Tables.Tables(c.Request.Context())})
	}
}

// @Summary  Get one table
// @Param    id  path  string  true  "Table ID"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/tables/{id} [get]
func handleGetTable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		for _, t := range svcs.Tables.Tables(c.Request.Context()) {
			if t.ID == id {
				ok(c, http.StatusOK, gin.H{"table": t})
				return
			}
		}
		respondErr(c, tables.ErrTableNotFound)
	}
}

// @Summary  Add an item to a table's order
// @Param    id   path  string true "Table ID"
// @Param    req  body  AddOrderItemRequest true "payload"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse "table or menu item not found"
// @Router   /api/v1/tables/{id}/order [post]
func handleAddOrderItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddOrderItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		table, err := svcs.Tables.AddOrderItem(
			c.Request.Context(),
			c.Param("id"),
			req.MenuItemID,
			req.Quantity,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{"table": table})
	}
}

// @Summary  Remove an order line from a table
// @Param    id      path  string true "Table ID"
// @Param    itemId  path  string true "Order line ID"
// @Success  200 {object} Response
// @Router   /api/v1/tables/{id}/order/{itemId} [delete]
func handleRemoveOrderItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := svcs.Tables.RemoveOrderItem(
			c.Request.Context(),
			c.Param("id"),
			c.Param("itemId"),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{"table": table})
	}
}

// @Summary  Merge tables into a main table
// @Param    id   path  string true "Main table ID"
// @Param    req  body  MergeTablesRequest true "payload"
// @Success  200 {object} Response
// @Router   /api/v1/tables/{id}/merge [post]
func handleMergeTables(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MergeTablesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		table, err := svcs.Tables.Merge(c.Request.Context(), c.Param("id"), req.TableIDs)
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{"table": table})
	}
}

// @Summary  Unmerge a previously merged table
// @Param    id  path  string true "Main table ID"
// @Success  200 {object} Response
// @Failure  409 {object} ErrorResponse "table is not merged"
// @Router   /api/v1/tables/{id}/unmerge [post]
func handleUnmergeTables(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := svcs.Tables.Unmerge(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{"table": table})
	}
}

// @Summary  Shift an order to another table
// @Param    id   path  string true "Source table ID"
// @Param    req  body  ShiftTableRequest true "payload"
// @Success  200 {object} Response
// @Router   /api/v1/tables/{id}/shift [post]
func handleShiftTable(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShiftTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		table, err := svcs.Tables.Shift(c.Request.Context(), c.Param("id"), req.ToTableID)
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{"table": table})
	}
}

// @Summary  Checkout a table (idempotent)
// @Param    id   path  string true "Table ID"
// @Param    req  body  CheckoutRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} Response
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Router   /api/v1/tables/{id}/checkout [post]
func handleCheckout(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID := c.Param("id")

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemCheckout(tableID, idemKey)

			if payload, found, _ := idem.GetResult(c.Request.Context(), idemStorageKey); found {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, found, _ := idem.GetResult(c.Request.Context(), idemStorageKey); found {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict,
					ErrorResponse{Status: "error", Message: "Checkout already in progress."})
				return
			}
		}

		order, err := svcs.Tables.Checkout(
			c.Request.Context(),
			tableID,
			domain.PaymentMethod(req.PaymentMethod),
			req.Discount,
		)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := Response{
			Status:  "success",
			Message: "Checkout completed.",
			Data:    gin.H{"order": order},
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  List menu items
// @Success  200 {object} Response
// @Router   /api/v1/menu [get]
func handleListMenu(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		menu := svcs.Tables.Menu(c.Request.Context())
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK,
			Response{Status: "success", Data: gin.H{"menu": menu}},
			"private, max-age=60", true)
	}
}

// @Summary  Add a menu item
// @Param    req body  MenuItemRequest true "payload"
// @Success  201 {object} Response
// @Router   /api/v1/menu [post]
func handleAddMenuItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MenuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		item := svcs.Tables.AddMenuItem(c.Request.Context(), domain.MenuItem{
			Name:        req.Name,
			Category:    req.Category,
			Price:       req.Price,
			Available:   req.Available,
			Description: req.Description,
		})

		ok(c, http.StatusCreated, gin.H{"item": item})
	}
}

// @Summary  Update a menu item
// @Param    id   path  string true "Menu item ID"
// @Param    req  body  MenuItemUpdateRequest true "payload"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/menu/{id} [put]
func handleUpdateMenuItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MenuItemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		item, err := svcs.Tables.UpdateMenuItem(c.Request.Context(), c.Param("id"), floor.MenuItemUpdate{
			Name:        req.Name,
			Category:    req.Category,
			Price:       req.Price,
			Available:   req.Available,
			Description: req.Description,
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{"item": item})
	}
}

// @Summary  Delete a menu item
// @Param    id  path  string true "Menu item ID"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/menu/{id} [delete]
func handleDeleteMenuItem(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Tables.DeleteMenuItem(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Menu item deleted.",
		})
	}
}

// @Summary  List completed orders
// @Success  200 {object} Response
// @Router   /api/v1/orders [get]
func handleListOrders(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"orders": svcs.Tables.Ledger(c.Request.Context())})
	}
}

// @Summary  List inventory
// @Success  200 {object} Response
// @Router   /api/v1/inventory [get]
func handleListInventory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"inventory": svcs.Tables.Inventory(c.Request.Context())})
	}
}

// @Summary  Set inventory stock level
// @Param    id   path  string true "Inventory item ID"
// @Param    req  body  InventoryUpdateRequest true "payload"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/inventory/{id} [put]
func handleUpdateInventory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InventoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Tables.UpdateInventory(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Inventory updated.",
		})
	}
}

// @Summary  List staff
// @Success  200 {object} Response
// @Router   /api/v1/staff [get]
func handleListStaff(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"staff": svcs.Tables.Staff(c.Request.Context())})
	}
}

// @Summary  Mark staff attendance
// @Param    id   path  string true "Staff ID"
// @Param    req  body  AttendanceRequest true "payload"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/staff/{id}/attendance [put]
func handleMarkAttendance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AttendanceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if err := svcs.Tables.MarkAttendance(c.Request.Context(), c.Param("id"), *req.Present); err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Attendance updated.",
		})
	}
}

// @Summary  Clock a staff member in or out
// @Param    id   path  string true "Staff ID"
// @Param    req  body  ClockRequest true "payload"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/staff/{id}/clock [post]
func handleClock(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ClockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		err := svcs.Tables.ClockInOut(
			c.Request.Context(),
			c.Param("id"),
			floor.ClockAction(req.Action),
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Clock " + req.Action + " recorded.",
		})
	}
}

// @Summary  List expenses
// @Success  200 {object} Response
// @Router   /api/v1/expenses [get]
func handleListExpenses(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"expenses": svcs.Tables.Expenses(c.Request.Context())})
	}
}

// @Summary  Record an expense
// @Param    req body  ExpenseRequest true "payload"
// @Success  201 {object} Response
// @Router   /api/v1/expenses [post]
func handleAddExpense(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		date := time.Time{}
		if req.Date != "" {
			d, err := parseDateQuery(req.Date, time.Time{})
			if err != nil {
				badRequest(c, "invalid date (YYYY-MM-DD or RFC3339)")
				return
			}
			date = d
		}

		expense := svcs.Tables.AddExpense(c.Request.Context(), domain.Expense{
			StaffID:     req.StaffID,
			Category:    req.Category,
			Amount:      req.Amount,
			Description: req.Description,
			Date:        date,
		})

		ok(c, http.StatusCreated, gin.H{"expense": expense})
	}
}

// @Summary  Sales and expense summary over a date range
// @Param    from  query  string  false "YYYY-MM-DD, default 30 days ago"
// @Param    to    query  string  false "YYYY-MM-DD, default today"
// @Success  200 {object} Response
// @Router   /api/v1/reports/summary [get]
func handleReportSummary(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		from, err := parseDateQuery(c.Query("from"), now.AddDate(0, 0, -30))
		if err != nil {
			badRequest(c, "invalid from (YYYY-MM-DD or RFC3339)")
			return
		}
		to, err := parseDateQuery(c.Query("to"), now)
		if err != nil {
			badRequest(c, "invalid to (YYYY-MM-DD or RFC3339)")
			return
		}
		if to.Before(from) {
			badRequest(c, "to is before from")
			return
		}

		summary, err := svcs.Reports.Summary(c.Request.Context(), from, to)
		if err != nil {
			respondErr(c, err)
			return
		}

		// ETag + Cache-Control 30s, matches the service-side cache TTL
		writeJSONWithCache(c, http.StatusOK,
			Response{Status: "success", Data: gin.H{"summary": summary}},
			"private, max-age=30", true)
	}
}
