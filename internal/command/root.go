// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/todoapp/todo-api/internal/pkg/config"
	"github.com/todoapp/todo-api/pkg/logger"
)

type configKey struct{}

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:          "todo [command] [flags]",
		Short:        "Personal task management API",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context(), envFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: "todo-api",
			})
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&envFile, "env-file", "e", ".env", "path to an optional .env file")

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		userCommand(),
		seedCommand(),
	)

	return cmd
}

func configFrom(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
