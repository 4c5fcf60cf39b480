// Package containers holds the controllers behind the bill list and the
// new bill form. Controllers are built against the dom, router, store and
// session ports and never touch a concrete renderer.
package containers

import (
	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/router"
	"github.com/zombor/billed/internal/session"
	"github.com/zombor/billed/internal/store"
)

// Test identifiers and attributes the controllers look for in the view
const (
	TestIDIconEye    = "icon-eye"
	TestIDNewBillBtn = "btn-new-bill"
	TestIDForm       = "form-new-bill"
	TestIDFile       = "file"
	TestIDType       = "expense-type"
	TestIDName       = "expense-name"
	TestIDAmount     = "amount"
	TestIDDate       = "datepicker"
	TestIDVAT        = "vat"
	TestIDPct        = "pct"
	TestIDCommentary = "commentary"

	ModalReceipt = "modaleFile"
	AttrBillURL  = "data-bill-url"
)

// PlaceholderReceipt is shown in the receipt modal when a bill has no file
const PlaceholderReceipt = "/assets/images/receipt-placeholder.png"

// Deps are the collaborators of a controller
type Deps struct {
	Document  dom.Document
	Navigator router.Navigator

	// Store is optional for the bill list, which then renders static data
	Store store.Store

	Session session.Storage

	// Locale of the display labels, French when unset
	Locale *bill.Locale
}

func (d Deps) locale() bill.Locale {
	if d.Locale == nil {
		return bill.French
	}
	return *d.Locale
}
