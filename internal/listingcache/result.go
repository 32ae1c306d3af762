package listingcache

import (
	"errors"

	"github.com/redmonkez12/pheafer-api/internal/client"
	"github.com/redmonkez12/pheafer-api/internal/listing"
)

// ErrMutationInFlight is returned when a mutation is submitted while another
// one has not finished
var ErrMutationInFlight = errors.New("another change is still being saved")

// KindBusy marks results rejected by the in-flight guard
const KindBusy client.ErrorKind = "busy"

// Result is the outcome of a mutation: either the stored listing or a kind
// and a message fit to show the user
type Result struct {
	Listing *listing.Listing
	Kind    client.ErrorKind
	Message string

	err error
}

// Ok wraps a successful mutation
func Ok(l *listing.Listing) Result {
	return Result{Listing: l}
}

// Failed wraps err, keeping the server message verbatim
func Failed(err error) Result {
	var apiErr *client.Error
	var validationErr *listing.ValidationError
	switch {
	case errors.Is(err, ErrMutationInFlight):
		return Result{Kind: KindBusy, Message: err.Error(), err: err}
	case errors.As(err, &validationErr):
		return Result{Kind: client.KindValidation, Message: validationErr.Message, err: err}
	case errors.As(err, &apiErr):
		return Result{Kind: apiErr.Kind, Message: apiErr.Error(), err: err}
	default:
		return Result{Kind: client.KindServer, Message: err.Error(), err: err}
	}
}

// IsOk reports whether the mutation succeeded
func (r Result) IsOk() bool {
	return r.err == nil
}

// Err returns the underlying error, or nil on success
func (r Result) Err() error {
	return r.err
}
