package containers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/router"
	"github.com/zombor/billed/internal/session"
	"github.com/zombor/billed/internal/store"
)

// NewBill drives the new bill form. The uploaded receipt is kept as pending
// state until the form is submitted; concurrent uploads overwrite each other
// and the last one to finish wins.
type NewBill struct {
	document  dom.Document
	navigator router.Navigator
	store     store.Store
	session   session.Storage

	mu       sync.Mutex
	billID   string
	fileURL  string
	fileName string

	creates sync.WaitGroup
}

// NewNewBill wires the file input and the form of the current view
func NewNewBill(d Deps) *NewBill {
	n := &NewBill{
		document:  d.Document,
		navigator: d.Navigator,
		store:     d.Store,
		session:   d.Session,
	}
	if n.document == nil {
		return n
	}

	if form := n.document.ByTestID(TestIDForm); form != nil {
		form.AddEventListener(dom.Submit, n.HandleSubmit)
	}
	if input := n.document.ByTestID(TestIDFile); input != nil {
		input.AddEventListener(dom.Change, n.HandleChangeFile)
	}

	return n
}

// FileName is the name of the accepted receipt, empty when none was
// accepted
func (n *NewBill) FileName() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fileName
}

// Pending returns the upload key, file URL and file name of the receipt
func (n *NewBill) Pending() (billID, fileURL, fileName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.billID, n.fileURL, n.fileName
}

// HandleChangeFile validates the selected receipt and uploads it.
// A file that is not jpg, jpeg or png clears the input and leaves no pending
// file name. Upload failures are logged and keep the previous pending state.
func (n *NewBill) HandleChangeFile(ctx context.Context, ev *dom.Event) {
	input := ev.Target
	if input == nil && n.document != nil {
		input = n.document.ByTestID(TestIDFile)
	}
	if input == nil {
		return
	}

	files := input.Files()
	if len(files) == 0 || !bill.AcceptedReceipt(files[0].Name) {
		input.SetValue("")
		n.mu.Lock()
		n.fileName = ""
		n.mu.Unlock()
		return
	}
	file := files[0]

	user, err := session.CurrentUser(n.session)
	if err != nil {
		slog.Error("Failed to read session user", "error", err)
		return
	}
	if n.store == nil {
		slog.Error("No store configured for receipt upload", "filename", file.Name)
		return
	}

	result, err := n.store.Bills().Upload(ctx, store.FileUpload{
		Filename:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
		Email:       user.Email,
	})
	if err != nil {
		slog.Error("Failed to upload receipt", "filename", file.Name, "error", err)
		return
	}

	n.mu.Lock()
	n.billID = result.Key
	n.fileURL = result.FileURL
	n.fileName = file.Name
	n.mu.Unlock()
}

// HandleSubmit assembles the bill from the form and the pending receipt,
// sends it to the store without waiting for the answer and navigates to the
// bill list. A failed create only shows as a missing bill on the next list.
// Without an accepted receipt nothing is sent, and the navigation still
// happens.
func (n *NewBill) HandleSubmit(ctx context.Context, ev *dom.Event) {
	ev.PreventDefault()

	user, err := session.CurrentUser(n.session)
	if err != nil {
		slog.Error("Failed to read session user", "error", err)
	}

	billID, fileURL, fileName := n.Pending()
	pct := parseInt(n.field(TestIDPct))
	if pct == 0 {
		pct = bill.DefaultPct
	}

	b := bill.Bill{
		ID:         billID,
		Email:      user.Email,
		Type:       n.field(TestIDType),
		Name:       n.field(TestIDName),
		Amount:     parseInt(n.field(TestIDAmount)),
		Date:       n.field(TestIDDate),
		VAT:        parseInt(n.field(TestIDVAT)),
		Pct:        pct,
		Commentary: n.field(TestIDCommentary),
		FileURL:    fileURL,
		FileName:   fileName,
		Status:     bill.StatusPending,
	}
	if billID == "" || fileName == "" {
		slog.Warn("Bill not sent, no accepted receipt", "filename", fileName)
	} else {
		n.create(ctx, b)
	}

	if err := n.navigator.Navigate(ctx, router.Bills); err != nil {
		slog.Error("Failed to navigate to bills", "error", err)
	}
}

// Wait blocks until every create sent by HandleSubmit has completed
func (n *NewBill) Wait() {
	n.creates.Wait()
}

// create sends b on its own goroutine, detached from ctx cancellation
func (n *NewBill) create(ctx context.Context, b bill.Bill) {
	if n.store == nil {
		slog.Error("No store configured for bill creation")
		return
	}

	ctx = context.WithoutCancel(ctx)
	n.creates.Add(1)
	go func() {
		defer n.creates.Done()
		if _, err := n.store.Bills().Create(ctx, b); err != nil {
			slog.Error("Failed to create bill", "id", b.ID, "error", err)
		}
	}()
}

func (n *NewBill) field(testID string) string {
	if n.document == nil {
		return ""
	}
	el := n.document.ByTestID(testID)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Value())
}

// parseInt reads the leading integer of s, 0 when there is none
func parseInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}
