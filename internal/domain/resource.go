package domain

import "time"

// Resource a finite shared asset (room, chair, equipment)
type Resource struct {
	ID           int64
	AccountID    int64
	TeamMemberID *int64 // NULL = shared by the whole account
	Name         string
	Type         string
	Capacity     int
	IsActive     bool
	CreatedAt    time.Time
}

// UsableBy returns true if the resource may serve a reservation of the team member
func (r *Resource) UsableBy(accountID, teamMemberID int64) bool {
	if !r.IsActive || r.AccountID != accountID {
		return false
	}
	return r.TeamMemberID == nil || *r.TeamMemberID == teamMemberID
}

// ResourceFilter one requested resource: an explicit id or a type, with quantity
type ResourceFilter struct {
	ResourceID *int64
	Type       *string
	Quantity   int
}

// Matches returns true if the resource satisfies the filter
func (f ResourceFilter) Matches(r *Resource) bool {
	if f.ResourceID != nil {
		return r.ID == *f.ResourceID
	}
	if f.Type != nil {
		return r.Type == *f.Type
	}
	return false
}

// EffectiveQuantity returns the quantity, at least 1
func (f ResourceFilter) EffectiveQuantity() int {
	if f.Quantity < 1 {
		return 1
	}
	return f.Quantity
}

// IsValid returns true if exactly one selector is set
func (f ResourceFilter) IsValid() bool {
	return (f.ResourceID != nil) != (f.Type != nil)
}

// Clone returns a deep copy
func (f ResourceFilter) Clone() ResourceFilter {
	out := ResourceFilter{Quantity: f.Quantity}
	out.ResourceID = cloneInt64(f.ResourceID)
	if f.Type != nil {
		v := *f.Type
		out.Type = &v
	}
	return out
}

// Allocation a quantity of a resource assigned to a reservation
type Allocation struct {
	ReservationID int64
	ResourceID    int64
	Quantity      int
}

// ResourceUsage a blocking reservation window holding a quantity of a resource
type ResourceUsage struct {
	ResourceID    int64
	ReservationID int64
	Footprint     Interval
	Quantity      int
}
