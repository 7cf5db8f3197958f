package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"xelaConnect/configs"
)

// Execute runs the xela command line.
func Execute() error {
	return NewRootCommand().Execute()
}

func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "xela",
		Short:         "XelaConnect messaging client and development service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")

	application := func() *App {
		if configPath == "" {
			return GetApp()
		}
		return New(configs.Load(configPath))
	}

	root.AddCommand(
		newServeCommand(application),
		newChatCommand(application),
		newLoginCommand(application),
		newLogoutCommand(application),
	)
	return root
}

func newServeCommand(application func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the development messaging service with mock data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return application().Serve(ctx)
		},
	}
}

func newChatCommand(application func() *App) *cobra.Command {
	var push bool

	cmd := &cobra.Command{
		Use:   "chat <partner-id>",
		Short: "Open a conversation; each line typed is sent, /quit leaves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := application()
			if cmd.Flags().Changed("push") {
				a.Config().Viper.Set("push.enabled", push)
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return a.Chat(ctx, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "subscribe to push events and poll only as a fallback")
	return cmd
}

func newLoginCommand(application func() *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the bearer token locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			response, err := application().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", response.User.Name, response.User.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(application func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application().Logout()
		},
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
