package httpgin

import "time"

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// --- auth ---

type ProfileInput struct {
	FirstName   string   `json:"firstName" binding:"required"`
	LastName    string   `json:"lastName" binding:"required"`
	Phone       string   `json:"phone"`
	Position    string   `json:"position"`
	Permissions []string `json:"permissions"`
}

type RegisterRequest struct {
	Username string       `json:"username" binding:"required,min=3,max=50"`
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required,min=6"`
	Role     string       `json:"role" binding:"omitempty,oneof=admin manager staff"`
	Profile  ProfileInput `json:"profile" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfilePatchInput struct {
	FirstName   *string   `json:"firstName"`
	LastName    *string   `json:"lastName"`
	Phone       *string   `json:"phone"`
	Position    *string   `json:"position"`
	Permissions *[]string `json:"permissions"`
}

type UpdateProfileRequest struct {
	Email   string             `json:"email" binding:"omitempty,email"`
	Profile *ProfilePatchInput `json:"profile"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// --- floor ---

type AddOrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

type MergeTablesRequest struct {
	TableIDs []string `json:"table_ids" binding:"required,min=1,dive,required"`
}

type ShiftTableRequest struct {
	ToTableID string `json:"to_table_id" binding:"required"`
}

type CheckoutRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=cash card qr"`
	Discount      float64 `json:"discount" binding:"omitempty"`
}

type MenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Available   bool    `json:"available"`
	Description string  `json:"description"`
}

type MenuItemUpdateRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Available   *bool    `json:"available"`
	Description *string  `json:"description"`
}

type InventoryUpdateRequest struct {
	Quantity *float64 `json:"quantity" binding:"required,gte=0"`
}

type AttendanceRequest struct {
	Present *bool `json:"present" binding:"required"`
}

type ClockRequest struct {
	Action string `json:"action" binding:"required,oneof=in out"`
}

type ExpenseRequest struct {
	StaffID     string  `json:"staff_id" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
