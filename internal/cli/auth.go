package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in (run: blogctl login)")

// readPassword takes the password from the flag, or the first line of stdin
func readPassword(cmd *cobra.Command, flag string, fromStdin bool) (string, error) {
	if !fromStdin {
		if flag == "" {
			return "", fmt.Errorf("--password or --password-stdin is required")
		}
		return flag, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(deps *commandDeps) *cobra.Command {
	var email, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			sess := deps.session()
			user, err := sess.Manager.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}

			deps.output(cmd.OutOrStdout()).Print(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newRegisterCmd(deps *commandDeps) *cobra.Command {
	var email, username, password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}

			user, err := deps.session().Manager.Register(cmd.Context(), email, username, pw)
			if err != nil {
				return err
			}

			deps.output(cmd.OutOrStdout()).Print(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newLogoutCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Long:  "Forget the stored credential. The backend is not contacted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps.session().Manager.Logout(cmd.Context())
			deps.output(cmd.OutOrStdout()).PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(deps *commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := deps.session().Manager.Initialize(cmd.Context())
			user, ok := st.Identity()
			if !ok {
				return errNotLoggedIn
			}
			deps.output(cmd.OutOrStdout()).Print(user)
			return nil
		},
	}
}
