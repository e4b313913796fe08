package domain

import (
	"fmt"
	"strings"
)

// DeliveryType is the closed category a trip serves. Orders may only be
// moved between trips of the same delivery type.
type DeliveryType string

const (
	DeliveryTypeCore    DeliveryType = "CORE"
	DeliveryTypeJars    DeliveryType = "JARS"
	DeliveryTypeKegs    DeliveryType = "KEGS"
	DeliveryTypeMecha   DeliveryType = "MECHA"
	DeliveryTypeExpress DeliveryType = "EXPRESS"
)

// ParseDeliveryType normalizes an external delivery-type string
// (upstream systems send lower or mixed case).
func ParseDeliveryType(s string) (DeliveryType, error) {
	dt := DeliveryType(strings.ToUpper(strings.TrimSpace(s)))
	switch dt {
	case DeliveryTypeCore, DeliveryTypeJars, DeliveryTypeKegs, DeliveryTypeMecha, DeliveryTypeExpress:
		return dt, nil
	}
	return "", fmt.Errorf("parse delivery type: unknown delivery type %q", s)
}

// Order is a single delivery stop assigned to exactly one trip at a time.
// The id is unique within its trip only; different trips may carry orders
// with the same id until a move forces re-identification.
type Order struct {
	ID               string
	OutletName       string
	Address          string
	City             string
	Cubes            float64
	Coordinates      Coordinates
	DeliverySequence int
	GridNumber       string
	PlannedRoute     string
}
