package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the dashboard report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())

			r, err := s.client.Report(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Revenue: %.2f  Orders: %d  Active clients: %d  Available products: %d\n",
				r.Summary.TotalRevenue, r.Summary.TotalOrders,
				r.Summary.ActiveClients, r.Summary.AvailableProducts)

			fmt.Fprintln(out, "\nTop products (units):")
			for i, item := range r.TopProducts {
				fmt.Fprintf(out, "  %d. %s (%.0f)\n", i+1, item.Name, item.Value)
			}

			fmt.Fprintln(out, "\nTop clients (spend):")
			for i, item := range r.TopClients {
				fmt.Fprintf(out, "  %d. %s (%.2f)\n", i+1, item.Name, item.Value)
			}

			fmt.Fprintln(out, "\nMonthly income:")
			for _, m := range r.MonthlyIncome {
				fmt.Fprintf(out, "  %s  %.2f\n", m.Month, m.Total)
			}

			fmt.Fprintln(out, "\nOrder status:")
			for _, sc := range r.StatusSummary {
				fmt.Fprintf(out, "  %s: %d\n", sc.Status, sc.Count)
			}
			return nil
		},
	}
}
