package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/validation"
)

func registerCmd(o *options) *cobra.Command {
	var email, password, confirm string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("confirm") {
				confirm = password
			}
			if fe := validation.Check(email, password, confirm); !fe.OK() {
				return fieldErrors(fe)
			}

			req := api.RegisterRequest{Email: strings.TrimSpace(email), Password: password}
			resp, err := o.wire.Onboarding.Register(cmd.Context(), req)
			if err != nil {
				return errors.New(api.Message(err))
			}
			if resp.HasErrorPrefix() {
				return errors.New(resp.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registro exitoso")
			if resp.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	return cmd
}

// fieldErrors joins the failing field messages in form order.
func fieldErrors(fe validation.FieldErrors) error {
	var msgs []string
	for _, m := range []string{fe.Email, fe.Password, fe.ConfirmPassword} {
		if m != "" {
			msgs = append(msgs, m)
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
