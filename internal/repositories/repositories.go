// Package repositories defines shared persistence errors. Concrete MongoDB
// implementations live in the mongo subpackage; domain packages declare the
// narrow store interfaces they need.
package repositories

import "errors"

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")
