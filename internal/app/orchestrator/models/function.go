package models

import (
	"time"
)

// FunctionDefinition is a function known to the registry. Definitions are
// created by the scan dispatcher when a matching blob is discovered and stay
// immutable after registration, except for the timestamp refresh on re-scan.
type FunctionDefinition struct {
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Location    FunctionLocation `json:"location"`

	// AssemblyFullName is the identity of the assembly executing this
	// function, used to correlate heartbeat records.
	AssemblyFullName string `json:"assemblyFullName"`
}

// Id returns the identifier of the definition, derived from its location.
func (f FunctionDefinition) Id() string {
	return f.Location.LocationId()
}
