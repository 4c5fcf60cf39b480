// Package views renders the pages of the application into an in-memory
// document.
package views

import (
	"fmt"
	"sort"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/containers"
	"github.com/zombor/billed/internal/dom"
)

// Test identifiers rendered by the views and not used by the controllers
const (
	TestIDTbody        = "tbody"
	TestIDBillRow      = "bill-row"
	TestIDBillDate     = "bill-date"
	TestIDErrorMessage = "error-message"
	TestIDLoading      = "loading"
	TestIDIconWindow   = "icon-window"
	TestIDIconMail     = "icon-mail"
)

// ModalWidth is the rendered width of the receipt modal
const ModalWidth = 800

// ExpenseTypes are the categories offered by the new bill form
var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

func layout(active string, content ...*dom.Node) *dom.Node {
	window := dom.NewNode("div").WithTestID(TestIDIconWindow)
	mail := dom.NewNode("div").WithTestID(TestIDIconMail)
	switch active {
	case TestIDIconWindow:
		window.SetAttr("class", "active-icon")
	case TestIDIconMail:
		mail.SetAttr("class", "active-icon")
	}
	return dom.NewNode("div").WithAttr("class", "layout").Append(
		dom.NewNode("div").WithAttr("class", "vertical-navbar").Append(window, mail),
		dom.NewNode("div").WithAttr("class", "content").Append(content...),
	)
}

// SortByDateDesc returns a copy of bills, most recent ISO date first
func SortByDateDesc(bills []bill.Bill) []bill.Bill {
	sorted := append([]bill.Bill(nil), bills...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortDate() > sorted[j].SortDate()
	})
	return sorted
}

func row(b bill.Bill) *dom.Node {
	url := b.FileURL
	if url == "" {
		url = "null"
	}
	return dom.NewNode("tr").WithTestID(TestIDBillRow).WithAttr("data-bill-id", b.ID).Append(
		dom.NewNode("td").WithText(b.Type),
		dom.NewNode("td").WithText(b.Name),
		dom.NewNode("td").WithTestID(TestIDBillDate).WithText(b.Date),
		dom.NewNode("td").WithText(fmt.Sprintf("%d €", b.Amount)),
		dom.NewNode("td").WithText(string(b.Status)),
		dom.NewNode("td").Append(
			dom.NewNode("div").WithTestID(containers.TestIDIconEye).WithAttr(containers.AttrBillURL, url),
		),
	)
}

// Bills renders the bill list, most recent bill first
func Bills(page *dom.Page, bills []bill.Bill) {
	tbody := dom.NewNode("tbody").WithTestID(TestIDTbody)
	for _, b := range SortByDateDesc(bills) {
		tbody.Append(row(b))
	}

	page.Replace(layout(TestIDIconWindow,
		dom.NewNode("div").WithAttr("class", "content-header").Append(
			dom.NewNode("div").WithAttr("class", "content-title").WithText("Mes notes de frais"),
			dom.NewNode("button").WithTestID(containers.TestIDNewBillBtn).WithText("Nouvelle note de frais"),
		),
		dom.NewNode("table").Append(tbody),
		dom.NewNode("div").WithAttr("id", containers.ModalReceipt).Append(
			dom.NewNode("h5").WithText("Justificatif"),
		),
	))
	page.AddModal(containers.ModalReceipt, "Justificatif", ModalWidth)
}

// Loading renders the loading page
func Loading(page *dom.Page) {
	page.Replace(layout(TestIDIconWindow,
		dom.NewNode("div").WithTestID(TestIDLoading).WithText("Loading..."),
	))
}

// Error renders the error page carrying err's message
func Error(page *dom.Page, err error) {
	message := "Erreur"
	if err != nil {
		message = err.Error()
	}
	page.Replace(layout(TestIDIconWindow,
		dom.NewNode("div").WithTestID(TestIDErrorMessage).WithText(message),
	))
}

// NewBill renders the new bill form
func NewBill(page *dom.Page) {
	expenseType := dom.NewNode("select").WithTestID(containers.TestIDType)
	for _, t := range ExpenseTypes {
		expenseType.Append(dom.NewNode("option").WithText(t))
	}
	expenseType.SetValue(ExpenseTypes[0])

	form := dom.NewNode("form").WithTestID(containers.TestIDForm).Append(
		expenseType,
		dom.NewNode("input").WithTestID(containers.TestIDName).WithAttr("placeholder", "Vol Paris Londres"),
		dom.NewNode("input").WithTestID(containers.TestIDDate).WithAttr("type", "date").WithAttr("required", ""),
		dom.NewNode("input").WithTestID(containers.TestIDAmount).WithAttr("type", "number").WithAttr("required", ""),
		dom.NewNode("input").WithTestID(containers.TestIDVAT).WithAttr("type", "number"),
		dom.NewNode("input").WithTestID(containers.TestIDPct).WithAttr("type", "number").WithAttr("placeholder", "20"),
		dom.NewNode("textarea").WithTestID(containers.TestIDCommentary),
		dom.NewNode("input").WithTestID(containers.TestIDFile).WithAttr("type", "file").WithAttr("accept", ".jpg,.jpeg,.png"),
		dom.NewNode("button").WithAttr("type", "submit").WithText("Envoyer"),
	)

	page.Replace(layout(TestIDIconMail,
		dom.NewNode("div").WithAttr("class", "content-title").WithText("Envoyer une note de frais"),
		form,
	))
}
