package domain

import (
	"time"

	"github.com/google/uuid"
)

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableMerged    TableStatus = "merged"
)

type MergeRole string

const (
	MergeMain      MergeRole = "main"
	MergeSecondary MergeRole = "secondary"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentQR   PaymentMethod = "qr"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
	Description string  `json:"description,omitempty"`
}

// OrderLineItem is one (menu item, quantity) pair within a table's open
// order. MenuItem is an embedded copy taken at the moment of ordering, so
// later catalog edits do not change already-placed items.
type OrderLineItem struct {
	ID       string   `json:"id"`
	MenuItem MenuItem `json:"menu_item"`
	Quantity int      `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
}

// Table is one physical seating unit. It cycles through
// available → occupied → (merged)* → available for the process lifetime.
type Table struct {
	ID          string          `json:"id"`
	Number      int             `json:"number"`
	Status      TableStatus     `json:"status"`
	Capacity    int             `json:"capacity"`
	Area        string          `json:"area"`
	Order       []OrderLineItem `json:"order"`
	StartTime   *time.Time      `json:"start_time,omitempty"`
	MergedWith  []string        `json:"merged_with,omitempty"`
	MergeRole   MergeRole       `json:"merge_role,omitempty"`
	MainTableID string          `json:"main_table_id,omitempty"`
}

// CompletedOrder is written to the ledger exactly once at checkout and is
// immutable afterwards.
type CompletedOrder struct {
	ID            string          `json:"id"`
	TableNumber   int             `json:"table_number"`
	Items         []OrderLineItem `json:"items"`
	Total         float64         `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Discount      float64         `json:"discount"`
	Timestamp     time.Time       `json:"timestamp"`
}

type InventoryItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	CurrentStock float64   `json:"current_stock"`
	MinStock     float64   `json:"min_stock"`
	LastUpdated  time.Time `json:"last_updated"`
}

type StaffMember struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Position string     `json:"position"`
	Present  bool       `json:"is_present"`
	ClockIn  *time.Time `json:"clock_in,omitempty"`
	ClockOut *time.Time `json:"clock_out,omitempty"`
}

type Expense struct {
	ID          string    `json:"id"`
	StaffID     string    `json:"staff_id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
)

type UserProfile struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone"`
	Position    string   `json:"position"`
	Permissions []string `json:"permissions"`
}

// User is the only durably stored entity; everything else lives in the
// in-memory floor state.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         UserRole    `json:"role"`
	Profile      UserProfile `json:"profile"`
	Active       bool        `json:"isActive"`
	LastLogin    *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
