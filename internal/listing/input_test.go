package listing

import (
	"encoding/json"
	"errors"
	"testing"
)

const completeBody = `{
	"name": " W1 ",
	"city": "Dallas",
	"latitude": 32.78,
	"longitude": "-96.8",
	"price": 500000,
	"squareFootage": "10000",
	"specs": {"ceilingHeight": 24, "dockDoors": "4", "powerCapacity": "3-phase 400A", "zoningType": "Industrial"}
}`

func decodeInput(t *testing.T, body string) Input {
	t.Helper()
	var in Input
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return in
}

func TestValidateComplete(t *testing.T) {
	fields, err := decodeInput(t, completeBody).Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := Fields{
		Name:          "W1",
		City:          "Dallas",
		Latitude:      32.78,
		Longitude:     -96.8,
		Price:         500000,
		SquareFootage: 10000,
		Specs: Specs{
			CeilingHeight: 24,
			DockDoors:     4,
			PowerCapacity: "3-phase 400A",
			ZoningType:    "Industrial",
		},
	}
	if fields != want {
		t.Fatalf("fields = %+v, want %+v", fields, want)
	}
}

func TestValidateNamesFirstFailingField(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty body", `{}`, "name"},
		{"blank name", `{"name":"  "}`, "name"},
		{"missing city", `{"name":"W1"}`, "city"},
		{"missing latitude", `{"name":"W1","city":"Dallas"}`, "latitude"},
		{"latitude not numeric", `{"name":"W1","city":"Dallas","latitude":"north"}`, "latitude"},
		{"latitude out of range", `{"name":"W1","city":"Dallas","latitude":91}`, "latitude"},
		{"longitude out of range", `{"name":"W1","city":"Dallas","latitude":1,"longitude":-181}`, "longitude"},
		{"null price", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":null}`, "price"},
		{"empty string price", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":""}`, "price"},
		{"missing squareFootage", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":1}`, "squareFootage"},
		{"missing specs", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":1,"squareFootage":1}`, "specs"},
		{"missing ceiling", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":1,"squareFootage":1,"specs":{}}`, "specs.ceilingHeight"},
		{"fractional dock doors", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":1,"squareFootage":1,"specs":{"ceilingHeight":1,"dockDoors":2.5}}`, "specs.dockDoors"},
		{"missing power", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":1,"squareFootage":1,"specs":{"ceilingHeight":1,"dockDoors":2}}`, "specs.powerCapacity"},
		{"missing zoning", `{"name":"W1","city":"Dallas","latitude":1,"longitude":1,"price":1,"squareFootage":1,"specs":{"ceilingHeight":1,"dockDoors":2,"powerCapacity":"400A","zoningType":" "}}`, "specs.zoningType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeInput(t, tt.body).Validate()
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want a validation error", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q (%s)", ve.Field, tt.field, ve.Message)
			}
		})
	}
}

func TestValidateAcceptsZeroCoordinates(t *testing.T) {
	body := `{"name":"Null Island","city":"Atlantic","latitude":0,"longitude":0,"price":1,"squareFootage":1,
		"specs":{"ceilingHeight":10,"dockDoors":0,"powerCapacity":"none","zoningType":"M1"}}`
	if _, err := decodeInput(t, body).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestNumberRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{`"NaN"`, `"Inf"`, `"-Infinity"`, `true`, `{}`} {
		var n Number
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if n.Valid {
			t.Errorf("%s should not be a valid number", raw)
		}
	}
}

func TestValidateBlankStringIsMissing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty latitude", `{"name":"W1","city":"Dallas","latitude":""}`, "latitude is required"},
		{"spaces latitude", `{"name":"W1","city":"Dallas","latitude":"  "}`, "latitude is required"},
		{"empty dock doors", `{"name":"W1","city":"Dallas","latitude":1,"longitude":2,"price":3,"squareFootage":4,
			"specs":{"ceilingHeight":5,"dockDoors":""}}`, "specs.dockDoors is required"},
		{"text latitude", `{"name":"W1","city":"Dallas","latitude":"north"}`, "latitude must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeInput(t, tt.body).Validate()
			if err == nil || err.Error() != tt.want {
				t.Fatalf("Validate() error = %v, want %q", err, tt.want)
			}
		})
	}
}
