package inventory

// StockStatus is the derived stock label of a product.
type StockStatus string

const (
	OutOfStock StockStatus = "Out of Stock"
	LowStock   StockStatus = "Low Stock"
	InStock    StockStatus = "In Stock"
)

// DefaultLowStockThreshold is the quantity under which an in-stock product is
// reported as low stock.
const DefaultLowStockThreshold = 20

// Thresholds holds the configurable stock limits.
type Thresholds struct {
	LowStock int
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{LowStock: DefaultLowStockThreshold}
}

// Status classifies a quantity. Quantities <= 0 are out of stock, quantities
// below the low stock threshold are low stock.
func (t Thresholds) Status(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return OutOfStock
	case quantity < t.lowStock():
		return LowStock
	default:
		return InStock
	}
}

func (t Thresholds) lowStock() int {
	if t.LowStock <= 0 {
		return DefaultLowStockThreshold
	}
	return t.LowStock
}

// StockStatus returns the stock label of the product under t.
func (p Product) StockStatus(t Thresholds) StockStatus {
	return t.Status(p.Quantity)
}

// Level grades a chart quantity.
type Level int

const (
	LevelCritical Level = iota
	LevelWarning
	LevelHealthy
)

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "critical"
	case LevelWarning:
		return "warning"
	default:
		return "healthy"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Chart grading limits for on-hand stock and sold units.
const (
	InwardCriticalBelow  = DefaultLowStockThreshold
	InwardWarningAtMost  = 60
	OutwardCriticalBelow = 5
	OutwardWarningBelow  = 15
)

// InwardLevel grades an on-hand quantity.
func InwardLevel(quantity int) Level {
	switch {
	case quantity < InwardCriticalBelow:
		return LevelCritical
	case quantity <= InwardWarningAtMost:
		return LevelWarning
	default:
		return LevelHealthy
	}
}

// OutwardLevel grades a sold quantity.
func OutwardLevel(sold int) Level {
	switch {
	case sold < OutwardCriticalBelow:
		return LevelCritical
	case sold < OutwardWarningBelow:
		return LevelWarning
	default:
		return LevelHealthy
	}
}

// SellingFastBelow is the remaining stock under which a freshly ordered
// product is flagged for restocking.
const SellingFastBelow = 10
