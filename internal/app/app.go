// Package app switches between the views of the application and builds the
// controller of each view.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/containers"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/router"
	"github.com/zombor/billed/internal/session"
	"github.com/zombor/billed/internal/store"
	"github.com/zombor/billed/internal/views"
)

// App renders routes into a page. It is the Navigator handed to the
// controllers.
type App struct {
	page    *dom.Page
	store   store.Store
	session session.Storage
	locale  *bill.Locale

	mu      sync.Mutex
	route   router.Route
	bills   *containers.Bills
	newBill *containers.NewBill
}

// Option configures an App
type Option func(*App)

// WithLocale sets the locale of the bill list labels
func WithLocale(l bill.Locale) Option {
	return func(a *App) {
		a.locale = &l
	}
}

// New creates an App rendering into page. s may be nil, in which case the
// bill list is always empty.
func New(page *dom.Page, s store.Store, sess session.Storage, opts ...Option) *App {
	a := &App{
		page:    page,
		store:   s,
		session: sess,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) deps() containers.Deps {
	return containers.Deps{
		Document:  a.page,
		Navigator: a,
		Store:     a.store,
		Session:   a.session,
		Locale:    a.locale,
	}
}

// Navigate renders route and wires its controller. A failed bill listing
// renders the error page and is not returned.
func (a *App) Navigate(ctx context.Context, route router.Route) error {
	switch route {
	case router.Bills:
		views.Loading(a.page)
		controller := containers.NewBills(a.deps())
		bills, err := controller.GetBills(ctx)
		if err != nil {
			slog.Error("Failed to load bills", "error", err)
			views.Error(a.page, err)
			a.set(route, nil, nil)
			return nil
		}
		views.Bills(a.page, bills)
		controller.Wire()
		a.set(route, controller, nil)
	case router.NewBill:
		views.NewBill(a.page)
		a.set(route, nil, containers.NewNewBill(a.deps()))
	default:
		return fmt.Errorf("%w: %s", router.ErrUnknownRoute, route)
	}
	return nil
}

func (a *App) set(route router.Route, bills *containers.Bills, newBill *containers.NewBill) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.route = route
	a.bills = bills
	if newBill != nil || route != router.Bills {
		a.newBill = newBill
	}
}

// Route is the route currently rendered
func (a *App) Route() router.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// Bills is the controller of the bill list, nil unless it is rendered
func (a *App) Bills() *containers.Bills {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bills
}

// NewBill is the controller of the last rendered new bill form. It is kept
// after navigating to the bill list so its pending creates can be awaited.
func (a *App) NewBill() *containers.NewBill {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.newBill
}

// Page is the document the app renders into
func (a *App) Page() *dom.Page {
	return a.page
}
