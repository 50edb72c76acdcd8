package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chiyaghar/pos-go/internal/domain"
	redisrepo "github.com/chiyaghar/pos-go/internal/repository/redis"
	"github.com/chiyaghar/pos-go/internal/service"
	"github.com/chiyaghar/pos-go/internal/service/auth"
)

type authPayload struct {
	User *domain.User `json:"user"`
	auth.TokenPair
}

// @Summary  Register a new account
// @Param    req body  RegisterRequest true "payload"
// @Success  201 {object} Response
// @Failure  409 {object} ErrorResponse "username or email taken"
// @Router   /api/v1/auth/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		user, pair, err := svcs.Auth.Register(c.Request.Context(), auth.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Role:     domain.UserRole(req.Role),
			Profile: domain.UserProfile{
				FirstName:   req.Profile.FirstName,
				LastName:    req.Profile.LastName,
				Phone:       req.Profile.Phone,
				Position:    req.Profile.Position,
				Permissions: req.Profile.Permissions,
			},
		})
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, Response{
			Status:  "success",
			Message: "User registered successfully.",
			Data:    authPayload{User: user, TokenPair: pair},
		})
	}
}

// @Summary  Login with username or email
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} Response
// @Failure  401 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/v1/auth/login [post]
func handleLogin(
	svcs *service.Services,
	limiter *redisrepo.SlidingWindowLimiter,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		if limiter != nil {
			allowed, _, retryAfter, err := limiter.Allow(
				c.Request.Context(),
				"login:ip:"+c.ClientIP(),
			)
			// on limiter backend failure the login proceeds; locking
			// everyone out because redis blipped is worse
			if err == nil && !allowed {
				c.Header("Retry-After", formatSeconds(retryAfter))
				c.JSON(http.StatusTooManyRequests,
					ErrorResponse{Status: "error", Message: "Too many login attempts. Try again later."})
				return
			}
		}

		user, pair, err := svcs.Auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Login successful.",
			Data:    authPayload{User: user, TokenPair: pair},
		})
	}
}

// @Summary  Exchange a refresh token for a new token pair
// @Param    req body  RefreshRequest true "payload"
// @Success  200 {object} Response
// @Failure  401 {object} ErrorResponse
// @Router   /api/v1/auth/refresh [post]
func handleRefresh(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		pair, err := svcs.Auth.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, pair)
	}
}

// @Summary  Logout
// @Success  200 {object} Response
// @Router   /api/v1/auth/logout [post]
func handleLogout() gin.HandlerFunc {
	// tokens are stateless; logout is the client discarding its pair
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Logged out successfully.",
		})
	}
}

// @Summary  Current user profile
// @Success  200 {object} Response
// @Router   /api/v1/auth/profile [get]
func handleGetProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondAuthErr(c, auth.ErrInvalidToken)
			return
		}
		ok(c, http.StatusOK, gin.H{"user": user})
	}
}

// @Summary  Update profile fields
// @Param    req body  UpdateProfileRequest true "payload"
// @Success  200 {object} Response
// @Failure  409 {object} ErrorResponse "email taken"
// @Router   /api/v1/auth/profile [put]
func handleUpdateProfile(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondAuthErr(c, auth.ErrInvalidToken)
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		var patch auth.ProfilePatch
		if req.Profile != nil {
			patch = auth.ProfilePatch{
				FirstName:   req.Profile.FirstName,
				LastName:    req.Profile.LastName,
				Phone:       req.Profile.Phone,
				Position:    req.Profile.Position,
				Permissions: req.Profile.Permissions,
			}
		}

		updated, err := svcs.Auth.UpdateProfile(c.Request.Context(), user.ID, req.Email, patch)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Profile updated successfully.",
			Data:    gin.H{"user": updated},
		})
	}
}

// @Summary  Change password
// @Param    req body  ChangePasswordRequest true "payload"
// @Success  200 {object} Response
// @Failure  401 {object} ErrorResponse "wrong current password"
// @Router   /api/v1/auth/change-password [put]
func handleChangePassword(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			respondAuthErr(c, auth.ErrInvalidToken)
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		err := svcs.Auth.ChangePassword(
			c.Request.Context(),
			user.ID,
			req.CurrentPassword,
			req.NewPassword,
		)
		if err != nil {
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: "Password changed successfully.",
		})
	}
}

// @Summary  List user accounts (admin)
// @Param    page   query  int  false "page, 1-based"
// @Param    limit  query  int  false "page size"
// @Success  200 {object} Response
// @Router   /api/v1/auth/users [get]
func handleListUsers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := parseIntDefault(c.Query("page"), 1)
		limit := parseIntDefault(c.Query("limit"), 20)

		users, pagination, err := svcs.Auth.ListUsers(c.Request.Context(), page, limit)
		if err != nil {
			respondErr(c, err)
			return
		}

		ok(c, http.StatusOK, gin.H{
			"users":      users,
			"pagination": pagination,
		})
	}
}

// @Summary  Activate or deactivate an account (admin)
// @Param    id   path  string true "User ID (uuid)"
// @Param    req  body  UserStatusRequest true "payload"
// @Success  200 {object} Response
// @Failure  404 {object} ErrorResponse
// @Router   /api/v1/auth/users/{id}/status [put]
func handleSetUserStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			badRequest(c, "invalid user id")
			return
		}

		var req UserStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		user, err := svcs.Auth.SetUserStatus(c.Request.Context(), userID, *req.IsActive)
		if err != nil {
			respondErr(c, err)
			return
		}

		msg := "User activated successfully."
		if !user.Active {
			msg = "User deactivated successfully."
		}

		c.JSON(http.StatusOK, Response{
			Status:  "success",
			Message: msg,
			Data:    gin.H{"user": user},
		})
	}
}
