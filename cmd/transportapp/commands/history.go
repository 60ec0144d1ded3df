package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func historyCmd(o *options) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show accounts and organizations created from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if reset {
				if err := o.wire.Maintenance.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "Historial borrado")
				return nil
			}

			h, err := o.wire.Onboarding.History(ctx)
			if err != nil {
				return err
			}
			if len(h.Accounts) == 0 && len(h.Organizations) == 0 {
				fmt.Fprintln(out, "Sin historial")
				return nil
			}

			accounts := newTable("Email", "Mensaje", "Fecha")
			for _, a := range h.Accounts {
				accounts.Row(a.Email, a.Message, a.CreatedAt.Local().Format(timeLayout))
			}
			orgs := newTable("Organización", "País", "Email", "Clave", "Fecha")
			for _, org := range h.Organizations {
				orgs.Row(org.Name, org.Country, org.Email, org.OrganizationKey, org.CreatedAt.Local().Format(timeLayout))
			}
			fmt.Fprintln(out, "Cuentas")
			fmt.Fprintln(out, accounts.Render())
			fmt.Fprintln(out, "Organizaciones")
			fmt.Fprintln(out, orgs.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the local history")
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}
