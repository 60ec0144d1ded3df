package commands

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/einar/transportapp/internal/app"
	"github.com/einar/transportapp/internal/config"
	"github.com/einar/transportapp/internal/state"
	"github.com/einar/transportapp/internal/tui"
)

type options struct {
	configPath string
	apiURL     string
	dbPath     string

	wire *app.Wire
}

func Execute() error {
	o := &options{}
	root := newRootCommand(o)
	err := root.Execute()
	if cerr := o.teardown(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), err)
	}
	return err
}

// newRootCommand builds the command tree. Dependencies are wired in
// PersistentPreRunE; the caller releases them with o.teardown.
func newRootCommand(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "transportapp",
		Short:         "Register a user and create a logistics organization",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ~/.config/transportapp/config.toml)")
	root.PersistentFlags().StringVar(&o.apiURL, "api-url", "", "backend base URL")
	root.PersistentFlags().StringVar(&o.dbPath, "db", "", "local history database path")

	root.AddCommand(registerCmd(o), orgCmd(o), historyCmd(o))
	return root
}

func (o *options) setup() error {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(o.apiURL, "/")
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	w, err := app.NewWire(cfg, nil)
	if err != nil {
		return err
	}
	o.wire = w
	return nil
}

func (o *options) teardown() error {
	if o.wire == nil {
		return nil
	}
	err := o.wire.Close()
	o.wire = nil
	return err
}

func (o *options) runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := o.wire
	reg := state.NewRegistration(ctx, w.Onboarding, w.Log)
	defer reg.Close()

	model := tui.New(ctx, tui.Deps{
		Registration:  reg,
		Organizations: w.Onboarding,
		History:       w.Onboarding,
		Countries:     w.Config.UI.Countries,
		Log:           w.Log,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
