package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/billed/internal/app"
	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/containers"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/session"
	"github.com/zombor/billed/internal/store"
	"github.com/zombor/billed/internal/views"
)

// clientFlags are shared by the commands talking to a bill store
type clientFlags struct {
	server   *string
	email    *string
	lang     *string
	authUser *string
	authPass *string
}

func registerClientFlags(fs *ff.FlagSet) clientFlags {
	return clientFlags{
		server:   fs.StringLong("server", "http://localhost:8080", "Bill store base URL"),
		email:    fs.StringLong("email", "", "Employee email"),
		lang:     fs.StringLong("lang", "fr", "Display language (fr or en)"),
		authUser: fs.StringLong("auth-user", "", "Basic auth username (optional)"),
		authPass: fs.StringLong("auth-pass", "", "Basic auth password (optional)"),
	}
}

// newApp logs the employee in and builds the app over an in-memory page
func (f clientFlags) newApp() (*app.App, error) {
	if *f.email == "" {
		return nil, fmt.Errorf("--email is required")
	}

	client, err := store.NewClient(store.Options{
		BaseURL:  *f.server,
		Email:    *f.email,
		Username: *f.authUser,
		Password: *f.authPass,
	})
	if err != nil {
		return nil, fmt.Errorf("creating store client: %w", err)
	}

	sess := session.NewMemory()
	if err := session.Login(sess, session.User{Type: session.Employee, Email: *f.email}); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	return app.New(dom.NewPage(), client, sess, app.WithLocale(bill.ParseLocale(*f.lang))), nil
}

// printBills writes the rendered bill list, or returns the rendered error
func printBills(w io.Writer, page *dom.Page) error {
	if msg := page.Node(views.TestIDErrorMessage); msg != nil {
		return fmt.Errorf("%s", msg.Text())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tDATE\tAMOUNT\tSTATUS\tRECEIPT")
	for _, row := range page.Nodes(views.TestIDBillRow) {
		var cols []string
		for _, cell := range row.Children() {
			if icons := cell.Children(); len(icons) > 0 && icons[0].TestID() == containers.TestIDIconEye {
				cols = append(cols, icons[0].Attr(containers.AttrBillURL))
				continue
			}
			cols = append(cols, cell.Text())
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	return tw.Flush()
}
