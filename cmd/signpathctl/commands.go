package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signpath/signpath-server/internal/config"
	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
	"github.com/signpath/signpath-server/internal/service"
	"github.com/signpath/signpath-server/internal/storage"
)

var errRejected = errors.New("session manager rejected the request")

// app holds what every subcommand needs once the record is loaded.
type app struct {
	open    func(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.RecordStore, storage.Closer, error)
	session *service.Session
	closer  storage.Closer
}

// close releases the store opened for the command, if any.
func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	closer := a.closer
	a.closer = nil
	return closer()
}

// execute runs root and releases the store even when the command failed,
// since cobra skips post-run hooks after an error.
func execute(root *cobra.Command, a *app) error {
	err := root.Execute()
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close session record: %w", closeErr)
	}
	return err
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{open: storage.Open}
	var verbose bool

	root := &cobra.Command{
		Use:   "signpathctl",
		Short: "Inspect and change the SignPath session record",
		Long: `signpathctl works directly on the durable session record selected by
the STORE_BACKEND environment (file, redis, postgres or minio).

Example usage:
  signpathctl whoami
  signpathctl login --email admin@signpath.com --password admin123
  signpathctl signup --email ana@example.com --password longenough --name Ana
  signpathctl role tutor
  signpathctl logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if verbose {
				level = -4
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), level, cfg.LogFormat)

			store, closer, err := a.open(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to open session record: %w", err)
			}

			a.closer = closer
			a.session = service.NewSession(store, service.Admin{
				Email:  cfg.Admin.Email,
				Secret: cfg.Admin.Secret,
			}, log)
			a.session.Initialize(cmd.Context())

			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		a.whoamiCmd(),
		a.loginCmd(),
		a.signupCmd(),
		a.roleCmd(),
		a.logoutCmd(),
	)

	return root, a
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and the screen it routes to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printView(cmd)
		},
	}
}

func (a *app) loginCmd() *cobra.Command {
	var req model.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in; the admin credentials yield the admin identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := model.Validate(req); err != nil {
				return err
			}
			if !a.session.Login(cmd.Context(), req.Email, req.Password) {
				return errRejected
			}
			return a.printView(cmd)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "login password")

	return cmd
}

func (a *app) signupCmd() *cobra.Command {
	var req model.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new student identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := model.Validate(req); err != nil {
				return err
			}
			if !a.session.Signup(cmd.Context(), req.Email, req.Password, req.Name) {
				return errRejected
			}
			return a.printView(cmd)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")

	return cmd
}

func (a *app) roleCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "role <student|tutor>",
		Short:     "Select the role of the current identity",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.RoleStudent), string(model.RoleTutor)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.SetRole(cmd.Context(), model.Role(args[0])); err != nil {
				return err
			}
			return a.printView(cmd)
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the current identity and erase the record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.printView(cmd)
		},
	}
}

func (a *app) printView(cmd *cobra.Command) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(service.View(a.session.Snapshot())); err != nil {
		return fmt.Errorf("failed to print session: %w", err)
	}
	return nil
}
