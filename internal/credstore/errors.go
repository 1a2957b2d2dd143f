package credstore

import (
	"errors"
	"fmt"
)

// ErrStore matches every *StoreError via errors.Is.
var ErrStore = errors.New("credential store error")

// StoreError reports a failure to open or initialize the store.
type StoreError struct {
	Op       string
	Location string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential store: %s %q: %v", e.Op, e.Location, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}
