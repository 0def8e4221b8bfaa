package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Environment is read through lookuper.
func NewRootCmd(lookuper envconfig.Lookuper) *cobra.Command {
	var sess *Session
	cfg, loadErr := DefaultConfig(context.Background(), lookuper)
	if loadErr != nil {
		// Reported when a command runs, so --help still works
		cfg = &Config{Output: "text"}
	}
	deps := &commandDeps{
		config:  func() *Config { return cfg },
		session: func() *Session { return sess },
	}

	rootCmd := &cobra.Command{
		Use:   "blogctl",
		Short: "CLI tool for the blog",
		Long: `blogctl signs in to the blog backend and reads or comments on posts.

The credential is kept in a token file between runs, so one login
serves every later command until it expires or you log out.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			sess = NewSession(cfg, logger)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Backend URL (env: BLOGCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: BLOGCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVar(&cfg.MePath, "me-path", cfg.MePath, "Identity lookup path (env: BLOGCTL_ME_PATH)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newLoginCmd(deps))
	rootCmd.AddCommand(newRegisterCmd(deps))
	rootCmd.AddCommand(newLogoutCmd(deps))
	rootCmd.AddCommand(newWhoamiCmd(deps))
	rootCmd.AddCommand(newPostsCmd(deps))
	rootCmd.AddCommand(newCategoriesCmd(deps))
	rootCmd.AddCommand(newTagsCmd(deps))
	rootCmd.AddCommand(newSearchCmd(deps))
	rootCmd.AddCommand(newCommentCmd(deps))
	rootCmd.AddCommand(newAdminCmd(deps))

	return rootCmd
}

// commandDeps hands subcommands the state built in PersistentPreRunE
type commandDeps struct {
	config  func() *Config
	session func() *Session
}

func (d *commandDeps) output(w io.Writer) *Output {
	return NewOutput(d.config().Output, w)
}

// Execute runs the root command
func Execute() {
	root := NewRootCmd(envconfig.OsLookuper())
	if err := root.Execute(); err != nil {
		NewOutput(outputFormat(root), os.Stderr).PrintError(err)
		os.Exit(1)
	}
}

func outputFormat(root *cobra.Command) string {
	if f := root.PersistentFlags().Lookup("output"); f != nil {
		return f.Value.String()
	}
	return "text"
}
