// Package router names the views of the application and the port used to
// switch between them.
package router

import (
	"context"
	"errors"
)

// Route is a logical view name
type Route string

const (
	Bills   Route = "#employee/bills"
	NewBill Route = "#employee/bill/new"
)

var ErrUnknownRoute = errors.New("unknown route")

// Navigator replaces the visible view
type Navigator interface {
	Navigate(ctx context.Context, route Route) error
}
