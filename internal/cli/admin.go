package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mcoot/blogfront/internal/guard"
	"github.com/mcoot/blogfront/internal/model"
)

var errForbidden = errors.New("the admin console needs an editor or admin account")

func newAdminCmd(deps *commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin console commands",
	}

	cmd.AddCommand(newAdminStatsCmd(deps))

	return cmd
}

// requireConsole applies the same guard as the web admin console
func requireConsole(cmd *cobra.Command, deps *commandDeps) (*Session, error) {
	sess := resolve(cmd, deps)
	switch guard.Decide(sess.Manager.State(), guard.RequireRole(model.RoleEditor)).Kind {
	case guard.Render:
		return sess, nil
	case guard.Forbidden:
		return nil, errForbidden
	default:
		return nil, errNotLoggedIn
	}
}

func newAdminStatsCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireConsole(cmd, deps)
			if err != nil {
				return err
			}
			stats, err := sess.Client.Stats(cmd.Context())
			if err != nil {
				return backendError(sess, err)
			}
			deps.output(cmd.OutOrStdout()).Print(stats)
			return nil
		},
	}
}
