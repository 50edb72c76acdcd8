package floor

import (
	"fmt"

	"github.com/chiyaghar/pos-go/internal/domain"
)

// Seeded returns a State preloaded with the fixed floor plan and starter
// catalog the tea house opens with: twelve tables split across three areas,
// the tea menu, the pantry stock and the staff roster.
func Seeded() *State {
	s := NewState()

	for i := 1; i <= 12; i++ {
		capacity := 6
		switch {
		case i <= 4:
			capacity = 2
		case i <= 8:
			capacity = 4
		}

		area := "VIP Area"
		switch {
		case i <= 6:
			area = "Main Area"
		case i <= 10:
			area = "Garden Area"
		}

		s.Tables = append(s.Tables, domain.Table{
			ID:       fmt.Sprintf("table-%d", i),
			Number:   i,
			Status:   domain.TableAvailable,
			Capacity: capacity,
			Area:     area,
		})
	}

	s.Menu = []domain.MenuItem{
		{ID: "1", Name: "Masala Chai", Category: "Milk Tea", Price: 25, Available: true},
		{ID: "2", Name: "Cardamom Tea", Category: "Milk Tea", Price: 30, Available: true},
		{ID: "3", Name: "Ginger Tea", Category: "Milk Tea", Price: 28, Available: true},
		{ID: "4", Name: "Plain Black Tea", Category: "Black Tea", Price: 20, Available: true},
		{ID: "5", Name: "Lemon Tea", Category: "Black Tea", Price: 25, Available: true},
		{ID: "6", Name: "Green Tea", Category: "Green Tea", Price: 35, Available: true},
		{ID: "7", Name: "Honey Ginger Tea", Category: "Special", Price: 40, Available: true},
		{ID: "8", Name: "Butter Tea", Category: "Special", Price: 45, Available: true},
	}

	now := s.Now()
	s.Inventory = []domain.InventoryItem{
		{ID: "1", Name: "Milk", Unit: "Liter", CurrentStock: 15, MinStock: 5, LastUpdated: now},
		{ID: "2", Name: "Tea Leaves", Unit: "Kg", CurrentStock: 3, MinStock: 1, LastUpdated: now},
		{ID: "3", Name: "Sugar", Unit: "Kg", CurrentStock: 8, MinStock: 2, LastUpdated: now},
		{ID: "4", Name: "Cardamom", Unit: "Gram", CurrentStock: 200, MinStock: 50, LastUpdated: now},
		{ID: "5", Name: "Ginger", Unit: "Kg", CurrentStock: 2, MinStock: 0.5, LastUpdated: now},
	}

	s.Staff = []domain.StaffMember{
		{ID: "1", Name: "Ram Bahadur", Position: "Manager", Present: true, ClockIn: &now},
		{ID: "2", Name: "Sita Devi", Position: "Server", Present: true, ClockIn: &now},
		{ID: "3", Name: "Hari Sharma", Position: "Cashier", Present: false},
	}

	return s
}
