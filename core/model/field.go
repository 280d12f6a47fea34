package model

import "fmt"

// FieldSize is the physical size class of a top-level field.
type FieldSize string

const (
	Size11v11 FieldSize = "11v11"
	Size8v8   FieldSize = "8v8"
	Size5v5   FieldSize = "5v5"
	Size3v3   FieldSize = "3v3"
)

// Capacity returns the demand capacity of a full field of this size.
func (s FieldSize) Capacity() int {
	switch s {
	case Size11v11:
		return 1000
	case Size8v8:
		return 500
	case Size5v5:
		return 250
	case Size3v3:
		return 125
	}
	return 0
}

// Valid reports whether s is a known size class.
func (s FieldSize) Valid() bool { return s.Capacity() > 0 }

// FieldRole places a field in the subdivision hierarchy.
type FieldRole string

const (
	RoleFull    FieldRole = "full"
	RoleHalf    FieldRole = "half"
	RoleQuarter FieldRole = "quarter"
)

// Valid reports whether r is a known role.
func (r FieldRole) Valid() bool {
	return r == RoleFull || r == RoleHalf || r == RoleQuarter
}

// Field is one playable resource. Only full fields carry availability and
// children; halves and quarters inherit availability from their root.
type Field struct {
	ID         string             `json:"id"`
	FacilityID string             `json:"facility_id"`
	Name       string             `json:"name"`
	Size       FieldSize          `json:"size"`
	Role       FieldRole          `json:"role"`
	ParentID   string             `json:"parent_id,omitempty"`
	Active     bool               `json:"active"`
	Windows    map[Weekday]Window `json:"windows,omitempty"`
}

// Validate checks a single record in isolation; forest-level invariants are
// enforced when the field tree is built.
func (f Field) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("field without id")
	}
	if !f.Role.Valid() {
		return fmt.Errorf("field %s: unknown role %q", f.ID, f.Role)
	}
	switch f.Role {
	case RoleFull:
		if !f.Size.Valid() {
			return fmt.Errorf("field %s: unknown size %q", f.ID, f.Size)
		}
		if f.ParentID != "" {
			return fmt.Errorf("field %s: full field cannot have a parent", f.ID)
		}
		for d, w := range f.Windows {
			if !d.Valid() {
				return fmt.Errorf("field %s: invalid weekday %d", f.ID, int(d))
			}
			if err := w.Validate(); err != nil {
				return fmt.Errorf("field %s, %s: %w", f.ID, d, err)
			}
		}
	default:
		if f.ParentID == "" {
			return fmt.Errorf("field %s: %s field needs a parent", f.ID, f.Role)
		}
		if len(f.Windows) > 0 {
			return fmt.Errorf("field %s: only full fields carry availability", f.ID)
		}
	}
	return nil
}
