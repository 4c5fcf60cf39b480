package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/billed/internal/router"
)

func newListCommand(parent *ff.FlagSet) *ff.Command {
	fs := ff.NewFlagSet("list").SetParent(parent)
	flags := registerClientFlags(fs)

	return &ff.Command{
		Name:      "list",
		Usage:     "billed list --email <email> [FLAGS]",
		ShortHelp: "list the bills of an employee",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			a, err := flags.newApp()
			if err != nil {
				return err
			}
			if err := a.Navigate(ctx, router.Bills); err != nil {
				return fmt.Errorf("showing bills: %w", err)
			}
			return printBills(os.Stdout, a.Page())
		},
	}
}
