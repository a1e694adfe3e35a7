// ABOUTME: Data models for the instance catalog, calculators, and API responses
// ABOUTME: JSON-serializable structures shared by the backend and the CLI

package models

import "time"

// CustomInstanceType is the catalog sentinel for user-supplied node capacity
const CustomInstanceType = "custom"

// InstanceSpec describes one cloud instance type in the catalog
type InstanceSpec struct {
	ID          string  `json:"id"`
	VCPU        float64 `json:"vcpu"`
	MemoryGiB   float64 `json:"memory_gib"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// IsCustom reports whether the spec is the user-editable sentinel entry
func (s InstanceSpec) IsCustom() bool {
	return s.ID == CustomInstanceType
}

// Calculator is a caller-owned sizing session with its own view state
type Calculator struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Color     string      `json:"color"`
	Request   PlanRequest `json:"request"`
	Plan      PlanResult  `json:"plan"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Seq       int         `json:"seq"`
}

// CalculatorPatch carries the mutable view fields of a calculator
type CalculatorPatch struct {
	Title *string `json:"title,omitempty"`
}

// HealthResponse reports service status
type HealthResponse struct {
	Status          string    `json:"status"`
	CatalogSize     int       `json:"catalog_size"`
	CalculatorCount int       `json:"calculator_count"`
	Timestamp       time.Time `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
