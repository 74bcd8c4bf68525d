package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in with a dashboard username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())

			pass, err := resolvePassword(password)
			if err != nil {
				return err
			}

			if err := s.session.SignIn(cmd.Context(), args[0], pass); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())
			if err := s.session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Register a new dashboard account",
		Long:  "Registers the identity and its profile. Registration ends signed out: log in explicitly afterwards.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sdkFrom(cmd.Context())

			pass, err := resolvePassword(password)
			if err != nil {
				return err
			}

			if err := s.session.SignUp(cmd.Context(), args[0], args[1], pass); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s, now run: dashctl login %s\n", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when omitted)")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sdkFrom(cmd.Context())

			sess, err := s.client.GetSession(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}

			profile, err := s.client.Me(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (expires %s)\n", sess.Email, sess.ExpiresAt.Format("2006-01-02 15:04"))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s status=%s\n",
				profile.Name, profile.Email, profile.Role, profile.Status)
			return nil
		},
	}
}

func resolvePassword(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
