package announcement

import (
	"fmt"

	"crowdship/internal/core/domain/model/kernel"
	"crowdship/internal/pkg/errs"
)

// Type classifies what is being transported.
type Type int

const (
	TypeUnknown Type = iota
	TypePackage
	TypeGroceries
	TypeDocuments
	TypeFurniture
	TypeOther
)

func typeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:   "UNKNOWN",
		TypePackage:   "PACKAGE",
		TypeGroceries: "GROCERIES",
		TypeDocuments: "DOCUMENTS",
		TypeFurniture: "FURNITURE",
		TypeOther:     "OTHER",
	}
}

// Validate checks the Type against the closed set of announcement types.
func (t Type) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("type",
			fmt.Errorf("%d is not a valid announcement type", t))
	}
	if _, ok := typeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("type",
			fmt.Errorf("%d is not a valid announcement type", t))
	}
	return nil
}

func (t Type) String() string {
	if s, ok := typeStrings()[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// TypeFromString parses a wire name back into a Type.
func TypeFromString(s string) (Type, error) {
	for t, name := range typeStrings() {
		if name == s && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("type",
		fmt.Errorf("%q is not a valid announcement type", s))
}

// Priority expresses how urgent the requester considers the delivery.
type Priority int

const (
	PriorityUnknown Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

func priorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUnknown: "UNKNOWN",
		PriorityLow:     "LOW",
		PriorityMedium:  "MEDIUM",
		PriorityHigh:    "HIGH",
		PriorityUrgent:  "URGENT",
	}
}

// Validate checks the Priority against the closed set of priorities.
func (p Priority) Validate() error {
	if p == PriorityUnknown {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	if _, ok := priorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%d is not a valid priority", p))
	}
	return nil
}

func (p Priority) String() string {
	if s, ok := priorityStrings()[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// PriorityFromString parses a wire name back into a Priority.
func PriorityFromString(s string) (Priority, error) {
	for p, name := range priorityStrings() {
		if name == s && p != PriorityUnknown {
			return p, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not a valid priority", s))
}

// Address couples a free-text address line with optional coordinates.
// The coordinates drive geo search and the delivery proximity check; when
// absent the announcement simply does not participate in radius queries.
type Address struct {
	line  string
	point *kernel.GeoPoint
}

// NewAddress creates an Address. The text line is required; point may be nil.
func NewAddress(line string, point *kernel.GeoPoint) (Address, error) {
	if line == "" {
		return Address{}, errs.NewValueIsRequiredError("address line")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Address{}, err
		}
	}
	return Address{line: line, point: point}, nil
}

// Line returns the free-text address.
func (a Address) Line() string {
	return a.line
}

// Point returns the coordinates, or nil when the address is not geocoded.
func (a Address) Point() *kernel.GeoPoint {
	return a.point
}

// PhysicalAttributes describes the goods. All fields are advisory metadata:
// no business rule consumes fragile or needsCooling, they are carried for
// couriers to read.
type PhysicalAttributes struct {
	WeightKg     float64
	LengthCm     float64
	WidthCm      float64
	HeightCm     float64
	Fragile      bool
	NeedsCooling bool
}

// Validate rejects negative dimensions and weight; zero means "not provided".
func (a PhysicalAttributes) Validate() error {
	if a.WeightKg < 0 {
		return errs.NewValueIsInvalidError("weightKg")
	}
	if a.LengthCm < 0 || a.WidthCm < 0 || a.HeightCm < 0 {
		return errs.NewValueIsInvalidError("dimensions")
	}
	return nil
}
