package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/chiyaghar/pos-go/internal/domain"
	redisrepo "github.com/chiyaghar/pos-go/internal/repository/redis"
	"github.com/chiyaghar/pos-go/internal/service"
	"github.com/chiyaghar/pos-go/internal/service/auth"
	"github.com/chiyaghar/pos-go/internal/service/tables"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	loginLimiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handleRegister(svcs))
		authGroup.POST("/login", handleLogin(svcs, loginLimiter))
		authGroup.POST("/refresh", handleRefresh(svcs))

		me := authGroup.Group("", AuthMiddleware(svcs.Auth))
		{
			me.POST("/logout", handleLogout())
			me.GET("/profile", handleGetProfile(svcs))
			me.PUT("/profile", handleUpdateProfile(svcs))
			me.PUT("/change-password", handleChangePassword(svcs))
		}

		admin := authGroup.Group("/users",
			AuthMiddleware(svcs.Auth),
			RequireRole(domain.RoleAdmin),
		)
		{
			admin.GET("", handleListUsers(svcs))
			admin.PUT("/:id/status", handleSetUserStatus(svcs))
		}
	}

	protected := api.Group("", AuthMiddleware(svcs.Auth))
	{
		protected.GET("/tables", handleListTables(svcs))
		protected.GET("/tables/:id", handleGetTable(svcs))
		protected.POST("/tables/:id/order", handleAddOrderItem(svcs))
		protected.DELETE("/tables/:id/order/:itemId", handleRemoveOrderItem(svcs))
		protected.POST("/tables/:id/merge", handleMergeTables(svcs))
		protected.POST("/tables/:id/unmerge", handleUnmergeTables(svcs))
		protected.POST("/tables/:id/shift", handleShiftTable(svcs))
		protected.POST("/tables/:id/checkout", handleCheckout(svcs, idem))

		protected.GET("/menu", handleListMenu(svcs))
		protected.POST("/menu", handleAddMenuItem(svcs))
		protected.PUT("/menu/:id", handleUpdateMenuItem(svcs))
		protected.DELETE("/menu/:id", handleDeleteMenuItem(svcs))

		protected.GET("/orders", handleListOrders(svcs))

		protected.GET("/inventory", handleListInventory(svcs))
		protected.PUT("/inventory/:id", handleUpdateInventory(svcs))

		protected.GET("/staff", handleListStaff(svcs))
		protected.PUT("/staff/:id/attendance", handleMarkAttendance(svcs))
		protected.POST("/staff/:id/clock", handleClock(svcs))

		protected.GET("/expenses", handleListExpenses(svcs))
		protected.POST("/expenses", handleAddExpense(svcs))

		protected.GET("/reports/summary", handleReportSummary(svcs))

		// multi-location support is not wired up yet; the client probes
		// this endpoint and falls back to single-restaurant mode
		protected.GET("/restaurants", func(c *gin.Context) {
			c.JSON(http.StatusOK, Response{
				Status: "success",
				Data:   gin.H{"available": false},
			})
		})
	}

	return r
}

// --- Helpers ---

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseDateQuery(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return parseRFC3339(s)
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Status: "success", Data: data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: "error", Message: msg})
}

func respondAuthErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Invalid or expired token."})
	case errors.Is(err, auth.ErrAccountDisabled):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Account is deactivated."})
	case errors.Is(err, auth.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Invalid or expired token."})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			ErrorResponse{Status: "error", Message: "Authentication failed."})
	}
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// auth service
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusConflict,
			ErrorResponse{Status: "error", Message: "Username or email already exists."})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Invalid credentials."})
	case errors.Is(err, auth.ErrAccountDisabled):
		c.JSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Account is deactivated."})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound,
			ErrorResponse{Status: "error", Message: "User not found."})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict,
			ErrorResponse{Status: "error", Message: "Email already in use."})
	case errors.Is(err, auth.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Current password is incorrect."})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized,
			ErrorResponse{Status: "error", Message: "Invalid or expired token."})
	// tables service
	case errors.Is(err, tables.ErrTableNotFound):
		c.JSON(http.StatusNotFound,
			ErrorResponse{Status: "error", Message: "Table not found."})
	case errors.Is(err, tables.ErrMenuItemNotFound):
		c.JSON(http.StatusNotFound,
			ErrorResponse{Status: "error", Message: "Menu item not found."})
	case errors.Is(err, tables.ErrTableNotMerged):
		c.JSON(http.StatusConflict,
			ErrorResponse{Status: "error", Message: "Table is not merged."})
	case errors.Is(err, tables.ErrInventoryNotFound):
		c.JSON(http.StatusNotFound,
			ErrorResponse{Status: "error", Message: "Inventory item not found."})
	case errors.Is(err, tables.ErrStaffNotFound):
		c.JSON(http.StatusNotFound,
			ErrorResponse{Status: "error", Message: "Staff member not found."})
	case errors.Is(err, tables.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest,
			ErrorResponse{Status: "error", Message: "Quantity must be positive."})
	default:
		c.JSON(http.StatusInternalServerError,
			ErrorResponse{Status: "error", Message: "Internal server error."})
	}
}
