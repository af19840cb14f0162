package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// Stats is the point-in-time dashboard view. Each figure comes from its
// own query; the set is not a consistent snapshot.
type Stats struct {
	OpenOrders     int     `json:"open_orders"`
	ActiveClients  int     `json:"active_clients"`
	StockItems     int     `json:"stock_items"`
	LowStockItems  int     `json:"low_stock_items"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	MonthlyCost    float64 `json:"monthly_cost"`
	MonthlyProfit  float64 `json:"monthly_profit"`
	RevenueChange  float64 `json:"revenue_change"`
}

type RecentOrder struct {
	ID         uuid.UUID `json:"id"`
	OSNumber   string    `json:"os_number"`
	ClientName *string   `json:"client_name,omitempty"`
	Device     string    `json:"device"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Overview struct {
	Stats        Stats         `json:"stats"`
	RecentOrders []RecentOrder `json:"recent_orders"`
}
