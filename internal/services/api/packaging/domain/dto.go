// Package domain holds DTOs for packaging http and service contracts
package domain

import "time"

// DetailInput is the input for the windowed detail listing
type DetailInput struct {
	Location string     `json:"location,omitempty" validate:"omitempty,min=1,max=64" example:"LODZ"`
	Printer  string     `json:"printer,omitempty" validate:"omitempty,min=1,max=64" example:"BGF1234567"`
	Name     string     `json:"name,omitempty" validate:"omitempty,min=1,max=200" example:"kaucja szkło"`
	Source   string     `json:"source,omitempty" validate:"omitempty,oneof=structured heuristic unmatched"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	Page     int        `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize int        `json:"page_size,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// DetailRow is one persisted deposit transaction
type DetailRow struct {
	Location  string    `json:"location"`
	Printer   string    `json:"printer"`
	File      string    `json:"file"`
	DocNumber int64     `json:"doc_number"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	UnitValue string    `json:"unit_value"`
	Total     string    `json:"total"`
	Source    string    `json:"source"`
}

// AggregateInput is the input for the bucket query
type AggregateInput struct {
	Location string     `json:"location,omitempty" validate:"omitempty,min=1,max=64"`
	Printer  string     `json:"printer,omitempty" validate:"omitempty,min=1,max=64"`
	Name     string     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
}

// AggregateRow is one summary bucket over persisted rows
type AggregateRow struct {
	Location string `json:"location"`
	Printer  string `json:"printer"`
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Issued   int    `json:"issued"`
	Returns  int    `json:"returns"`
	SumTotal string `json:"sum_total"`
}
