package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/countries"
	"github.com/einar/transportapp/internal/validation"
)

func orgCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations",
	}
	cmd.AddCommand(orgCreateCmd(o))
	return cmd
}

func orgCreateCmd(o *options) *cobra.Command {
	var name, country, email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization for a registered email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := o.wire.Onboarding
			if strings.TrimSpace(email) == "" {
				last, err := svc.LastRegisteredEmail(ctx)
				if err != nil {
					return err
				}
				email = last
			}
			list := o.wire.Config.UI.Countries
			if c, ok := countries.Match(country, list); ok {
				country = c
			}
			if err := validation.Organization(validation.OrganizationForm{
				Name:      name,
				Country:   country,
				Email:     strings.TrimSpace(email),
				Countries: list,
			}); err != nil {
				var fe *validation.FieldError
				if errors.As(err, &fe) {
					return errors.New(fe.Message)
				}
				return err
			}

			req := api.CreateOrganizationRequest{Email: strings.TrimSpace(email), Name: strings.TrimSpace(name)}
			resp, err := svc.CreateOrganization(ctx, req, country)
			if err != nil {
				return errors.New(api.Message(err))
			}
			if !resp.HasKey() {
				return errors.New(api.ErrorPrefix + " " + resp.Message)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Organización creada con éxito")
			fmt.Fprintf(out, "Clave: %s\n", resp.OrganizationKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "organization name")
	cmd.Flags().StringVar(&country, "country", "", "country of logistics operation")
	cmd.Flags().StringVar(&email, "email", "", "registered email (defaults to the last registered one)")
	return cmd
}
