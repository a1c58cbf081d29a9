package domain

import "github.com/shopspring/decimal"

// Velocity is the recent sales performance of a product.
type Velocity struct {
	DailySalesRate float64
	TotalRevenue   decimal.Decimal
	TotalUnitsSold int
	PeriodDays     int
}

// AverageUnitPrice returns revenue per unit sold, or false when nothing sold.
func (v Velocity) AverageUnitPrice() (decimal.Decimal, bool) {
	if v.TotalUnitsSold <= 0 {
		return decimal.Zero, false
	}
	return v.TotalRevenue.Div(decimal.NewFromInt(int64(v.TotalUnitsSold))), true
}
