package tables

import "errors"

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrTableNotMerged    = errors.New("table is not a merged main table")
	ErrInventoryNotFound = errors.New("inventory item not found")
	ErrStaffNotFound     = errors.New("staff member not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)
