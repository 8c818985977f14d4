package main

import (
	"fmt"
	"text/tabwriter"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/N-P-Trigunayat/N-P-Split-2/internal/money"
	"github.com/N-P-Trigunayat/N-P-Split-2/internal/service"
)

func (a *app) balancesCmd() *cobra.Command {
	var groupID string
	var simplify bool

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show who owes whom",
		Long:  `Show the local user's balances and, with --simplify, a payoff plan covering everyone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := a.openService()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			balances, err := svc.GetBalances(ctx, connect.NewRequest(&service.GetBalancesRequest{GroupID: groupID}))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Balances for %s\n", balances.Msg.Reference)
			if len(balances.Msg.Ranked) == 0 {
				fmt.Fprintln(w, "All settled up.")
			}
			for _, b := range balances.Msg.Ranked {
				amount := money.FromFloat(b.Amount)
				if amount > 0 {
					fmt.Fprintf(w, "%s\towes you\t%s\n", b.Person, amount)
				} else {
					fmt.Fprintf(w, "you owe\t%s\t%s\n", b.Person, amount.Abs())
				}
			}
			totals := balances.Msg.Totals
			fmt.Fprintf(w, "\nYou owe\t%s\nOwed to you\t%s\nNet\t%s\n",
				money.FromFloat(totals.OweThem), money.FromFloat(totals.OwedByThem), money.FromFloat(totals.Net))
			if next := balances.Msg.NextPayer; next != "" {
				fmt.Fprintf(w, "Next to pay\t%s\n", next)
			}
			for _, link := range balances.Msg.PaymentLinks {
				fmt.Fprintf(w, "Pay %s\t%s\n", link.To, link.URL)
			}

			if simplify {
				plan, err := svc.SimplifyDebts(ctx, connect.NewRequest(&service.SimplifyDebtsRequest{GroupID: groupID}))
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "\nSettle up (%s)\n", plan.Msg.Strategy)
				for _, p := range plan.Msg.Payments {
					fmt.Fprintf(w, "%s\tpays %s\t%s\n", p.From, p.To, money.FromFloat(p.Amount))
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&groupID, "group", "g", "", "restrict to one group")
	cmd.Flags().BoolVarP(&simplify, "simplify", "s", false, "also print a simplified payoff plan")
	return cmd
}
