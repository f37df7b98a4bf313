package views

// StockPoint is one point of the stock-over-time chart.
type StockPoint struct {
	Date  string  `json:"date"`
	Stock float64 `json:"stock"`
}

// StockSeries zips dates with levels. Dates without a level get zero; extra
// levels are ignored.
func StockSeries(dates []string, levels []float64) []StockPoint {
	points := make([]StockPoint, 0, len(dates))
	for i, d := range dates {
		var stock float64
		if i < len(levels) {
			stock = levels[i]
		}
		points = append(points, StockPoint{Date: d, Stock: stock})
	}
	return points
}
