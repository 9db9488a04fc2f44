package status

import "errors"

// ErrorKind classifies store failures for logging.
type ErrorKind string

const (
	KindConnection ErrorKind = "connection"
	KindQuery      ErrorKind = "query"
)

// StoreError wraps a driver error with the operation and failure kind.
// Error returns the driver's text unchanged.
type StoreError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func connectionError(op string, err error) error {
	return &StoreError{Op: op, Kind: KindConnection, Err: err}
}

func queryError(op string, err error) error {
	return &StoreError{Op: op, Kind: KindQuery, Err: err}
}

// AsStoreError extracts a StoreError from err's chain.
func AsStoreError(err error) (*StoreError, bool) {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr, true
	}
	return nil, false
}

// IsConnectionError reports whether err came from acquiring a connection.
func IsConnectionError(err error) bool {
	storeErr, ok := AsStoreError(err)
	return ok && storeErr.Kind == KindConnection
}
