package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Stats is the free-form dashboard statistics object.
type Stats map[string]any

// StockChart is the stock-over-time payload. Levels may be shorter than
// Dates; missing entries mean zero.
type StockChart struct {
	Dates  []string
	Levels []float64
}

// UnmarshalJSON accepts both the dates/stock_levels and date/stock key
// spellings. Null levels decode as zero.
func (s *StockChart) UnmarshalJSON(data []byte) error {
	var raw struct {
		Dates       []string   `json:"dates"`
		Date        []string   `json:"date"`
		StockLevels []*float64 `json:"stock_levels"`
		Stock       []*float64 `json:"stock"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Dates = raw.Dates
	if s.Dates == nil {
		s.Dates = raw.Date
	}
	levels := raw.StockLevels
	if levels == nil {
		levels = raw.Stock
	}
	s.Levels = make([]float64, len(levels))
	for i, l := range levels {
		if l != nil {
			s.Levels[i] = *l
		}
	}
	return nil
}

// DashboardStats fetches the summary statistics.
func (c *Client) DashboardStats(ctx context.Context) (Stats, error) {
	out := Stats{}
	if err := c.Do(ctx, http.MethodGet, "dashboard/stats/", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Stats{}
	}
	return out, nil
}

// StockChart fetches the stock-over-time series.
func (c *Client) StockChart(ctx context.Context) (StockChart, error) {
	var out StockChart
	err := c.Do(ctx, http.MethodGet, "dashboard/stock-chart/", nil, nil, &out)
	return out, err
}
