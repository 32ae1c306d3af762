package listing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrValidation matches every *ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError names the first missing or invalid field by its wire name
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func required(field string) error {
	return &ValidationError{Field: field, Message: field + " is required"}
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: field + " " + fmt.Sprintf(format, args...)}
}

// Number accepts either a JSON number or a numeric string. Values that are
// neither decode without error but are reported by Validate. A blank string
// decodes as missing.
type Number struct {
	Value float64
	Valid bool

	blank bool
}

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	if strings.TrimSpace(raw) == "" {
		*n = Number{blank: true}
		return nil
	}
	*n = parseNumber(raw)
	return nil
}

// ParseNumber converts form text to a Number. Blank text yields nil so the
// field is reported as missing.
func ParseNumber(text string) *Number {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	n := parseNumber(text)
	return &n
}

func parseNumber(text string) Number {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return Number{
		Value: f,
		Valid: err == nil && !math.IsNaN(f) && !math.IsInf(f, 0),
	}
}

// SpecsInput is the raw specs object of a create or update request
type SpecsInput struct {
	CeilingHeight *Number `json:"ceilingHeight"`
	DockDoors     *Number `json:"dockDoors"`
	PowerCapacity string  `json:"powerCapacity"`
	ZoningType    string  `json:"zoningType"`
}

// Input is the raw body of a create or update request
type Input struct {
	Name          string      `json:"name"`
	City          string      `json:"city"`
	Latitude      *Number     `json:"latitude"`
	Longitude     *Number     `json:"longitude"`
	Price         *Number     `json:"price"`
	SquareFootage *Number     `json:"squareFootage"`
	Specs         *SpecsInput `json:"specs"`
}

// Validate trims strings, coerces numbers and returns the first failing field
// in wire order.
func (in Input) Validate() (Fields, error) {
	var f Fields
	var err error

	if f.Name, err = requireString("name", in.Name); err != nil {
		return Fields{}, err
	}
	if f.City, err = requireString("city", in.City); err != nil {
		return Fields{}, err
	}
	if f.Latitude, err = requireNumber("latitude", in.Latitude); err != nil {
		return Fields{}, err
	}
	if f.Latitude < -90 || f.Latitude > 90 {
		return Fields{}, invalid("latitude", "must be between -90 and 90")
	}
	if f.Longitude, err = requireNumber("longitude", in.Longitude); err != nil {
		return Fields{}, err
	}
	if f.Longitude < -180 || f.Longitude > 180 {
		return Fields{}, invalid("longitude", "must be between -180 and 180")
	}
	if f.Price, err = requireNumber("price", in.Price); err != nil {
		return Fields{}, err
	}
	if f.SquareFootage, err = requireNumber("squareFootage", in.SquareFootage); err != nil {
		return Fields{}, err
	}

	if in.Specs == nil {
		return Fields{}, required("specs")
	}
	if f.Specs.CeilingHeight, err = requireNumber("specs.ceilingHeight", in.Specs.CeilingHeight); err != nil {
		return Fields{}, err
	}
	dockDoors, err := requireNumber("specs.dockDoors", in.Specs.DockDoors)
	if err != nil {
		return Fields{}, err
	}
	if dockDoors != math.Trunc(dockDoors) || math.Abs(dockDoors) > math.MaxInt32 {
		return Fields{}, invalid("specs.dockDoors", "must be a whole number")
	}
	f.Specs.DockDoors = int(dockDoors)
	if f.Specs.PowerCapacity, err = requireString("specs.powerCapacity", in.Specs.PowerCapacity); err != nil {
		return Fields{}, err
	}
	if f.Specs.ZoningType, err = requireString("specs.zoningType", in.Specs.ZoningType); err != nil {
		return Fields{}, err
	}

	return f, nil
}

func requireString(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", required(field)
	}
	return value, nil
}

func requireNumber(field string, n *Number) (float64, error) {
	if n == nil || n.blank {
		return 0, required(field)
	}
	if !n.Valid {
		return 0, invalid(field, "must be a number")
	}
	return n.Value, nil
}
