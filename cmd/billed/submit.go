package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/billed/internal/containers"
	"github.com/zombor/billed/internal/dom"
	"github.com/zombor/billed/internal/router"
)

type submitFlags struct {
	expenseType *string
	name        *string
	date        *string
	amount      *int
	vat         *int
	pct         *int
	commentary  *string
	file        *string
}

func newSubmitCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("submit").SetParent(parent)
	flags := registerClientFlags(fs)
	form := submitFlags{
		expenseType: fs.StringLong("type", "Transports", "Expense type"),
		name:        fs.StringLong("name", "", "Expense name"),
		date:        fs.StringLong("date", "", "Expense date (YYYY-MM-DD)"),
		amount:      fs.IntLong("amount", 0, "Amount including VAT, in euros"),
		vat:         fs.IntLong("vat", 0, "VAT amount, in euros (optional)"),
		pct:         fs.IntLong("pct", 0, "VAT percentage (default 20)"),
		commentary:  fs.StringLong("commentary", "", "Commentary"),
		file:        fs.StringLong("file", "", "Receipt file, jpg, jpeg or png (required)"),
	}

	return &ff.Command{
		Name:      "submit",
		Usage:     "billed submit --email <email> --date <date> --amount <amount> --file <receipt> [FLAGS]",
		ShortHelp: "send a new bill",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			return submit(ctx, flags, form)
		},
	}
}

func submit(ctx context.Context, flags clientFlags, form submitFlags) error {
	if *form.file == "" {
		return fmt.Errorf("--file is required")
	}

	a, err := flags.newApp()
	if err != nil {
		return err
	}
	if err := a.Navigate(ctx, router.NewBill); err != nil {
		return fmt.Errorf("showing new bill form: %w", err)
	}
	page := a.Page()

	page.Node(containers.TestIDType).SetValue(*form.expenseType)
	page.Node(containers.TestIDName).SetValue(*form.name)
	page.Node(containers.TestIDDate).SetValue(*form.date)
	page.Node(containers.TestIDAmount).SetValue(strconv.Itoa(*form.amount))
	if *form.vat != 0 {
		page.Node(containers.TestIDVAT).SetValue(strconv.Itoa(*form.vat))
	}
	if *form.pct != 0 {
		page.Node(containers.TestIDPct).SetValue(strconv.Itoa(*form.pct))
	}
	page.Node(containers.TestIDCommentary).SetValue(*form.commentary)

	data, err := os.ReadFile(*form.file)
	if err != nil {
		return fmt.Errorf("reading receipt: %w", err)
	}
	name := filepath.Base(*form.file)
	page.Node(containers.TestIDFile).Upload(ctx, dom.File{
		Name:        name,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Data:        data,
	})
	if a.NewBill().FileName() != name {
		return fmt.Errorf("receipt %s was not accepted, expected an uploaded jpg, jpeg or png file", name)
	}

	newBill := a.NewBill()
	page.Node(containers.TestIDForm).Submit(ctx)
	newBill.Wait()

	// the list shown on submit may predate the create
	if err := a.Navigate(ctx, router.Bills); err != nil {
		return fmt.Errorf("showing bills: %w", err)
	}
	return printBills(os.Stdout, page)
}
