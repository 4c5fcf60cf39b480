package containers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/router"
	"github.com/zombor/billed/internal/session"
	"github.com/zombor/billed/internal/store"
)

// Bills drives the bill list view
type Bills struct {
	document  dom.Document
	navigator router.Navigator
	store     store.Store
	session   session.Storage
	locale    bill.Locale
}

// NewBills wires the "new bill" button and every receipt icon of the
// current view
func NewBills(d Deps) *Bills {
	b := &Bills{
		document:  d.Document,
		navigator: d.Navigator,
		store:     d.Store,
		session:   d.Session,
		locale:    d.locale(),
	}
	b.Wire()
	return b
}

// Wire attaches the click handlers to the elements currently in the
// document. Call it again after the view was re-rendered.
func (b *Bills) Wire() {
	if b.document == nil {
		return
	}

	if btn := b.document.ByTestID(TestIDNewBillBtn); btn != nil {
		btn.AddEventListener(dom.Click, func(ctx context.Context, _ *dom.Event) {
			if err := b.HandleClickNewBill(ctx); err != nil {
				slog.Error("Failed to open new bill form", "error", err)
			}
		})
	}

	for _, icon := range b.document.AllByTestID(TestIDIconEye) {
		icon.AddEventListener(dom.Click, func(ctx context.Context, ev *dom.Event) {
			b.HandleClickIconEye(ctx, ev.Target)
		})
	}
}

// HandleClickNewBill navigates to the new bill form
func (b *Bills) HandleClickNewBill(ctx context.Context) error {
	return b.navigator.Navigate(ctx, router.NewBill)
}

// HandleClickIconEye shows the receipt of the clicked row. The receipt URL
// is read from the icon when it is clicked.
func (b *Bills) HandleClickIconEye(ctx context.Context, icon dom.Element) {
	url := icon.Attr(AttrBillURL)
	if url == "" || url == "null" {
		url = PlaceholderReceipt
	}

	modal := b.document.Modal(ModalReceipt)
	if modal == nil {
		slog.Warn("Receipt modal missing from view", "modal", ModalReceipt)
		return
	}
	modal.SetImage(url, modal.Width()/2)
	modal.Show()
}

// GetBills fetches the bills and formats their date and status for display.
// Bills that cannot be formatted are returned unchanged. The store order is
// kept; sorting is left to the view.
func (b *Bills) GetBills(ctx context.Context) ([]bill.Bill, error) {
	if b.store == nil {
		return []bill.Bill{}, nil
	}

	raw, err := b.store.Bills().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching bills: %w", err)
	}

	bills := make([]bill.Bill, 0, len(raw))
	for _, r := range raw {
		formatted, err := b.locale.Format(r)
		if err != nil {
			slog.Warn("Failed to format bill", "id", r.ID, "date", r.Date, "status", r.Status, "error", err)
			bills = append(bills, r)
			continue
		}
		bills = append(bills, formatted)
	}

	return bills, nil
}
