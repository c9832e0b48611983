package models

import "time"

// DailyReport is the aggregated daily snapshot stored by the reporting job and
// exported to the admin spreadsheet.
type DailyReport struct {
	Date            time.Time `bson:"date" json:"date"`
	TotalSales      float64   `bson:"total_sales" json:"total_sales"`
	PaidOrders      int       `bson:"paid_orders" json:"paid_orders"`
	NewUsers        int       `bson:"new_users" json:"new_users"`
	LowStockCount   int       `bson:"low_stock_count" json:"low_stock_count"`
	OutOfStockCount int       `bson:"out_of_stock_count" json:"out_of_stock_count"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}
