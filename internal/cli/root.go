// Package cli is the dashctl command tree, a thin terminal stand-in for the
// dashboard view layer.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"dashflow-service/internal/dashboard/api"
	"dashflow-service/internal/dashboard/session"
	"dashflow-service/internal/domain/member"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		server    string
		tokenFile string
		verbose   bool
	)

	rootCmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "DashFlow admin CLI",
		Long:          "Command-line interface for the DashFlow admin service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("server") {
				if v := os.Getenv("DASHFLOW_SERVER"); v != "" {
					server = v
				}
			}
			cmd.SetContext(withSDK(cmd.Context(), buildSDK(server, tokenFile, verbose)))
		},
	}

	rootCmd.PersistentFlags().StringVar(&server, "server", "http://localhost:8000", "service base URL")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", defaultTokenPath(), "path of the persisted access token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log SDK internals")

	rootCmd.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newWhoamiCmd(),
		newClientsCmd(),
		newProductsCmd(),
		newOrdersCmd(),
		newMembersCmd(),
		newActivityCmd(),
		newReportCmd(),
	)
	return rootCmd
}

// sdk bundles everything a command needs.
type sdk struct {
	client  *api.Client
	session *session.Manager
	logger  *zap.Logger
}

func buildSDK(server, tokenFile string, verbose bool) *sdk {
	logger := zap.NewNop()
	if verbose {
		logger, _ = zap.NewDevelopment()
	}

	client := api.NewClient(server, logger, api.WithTokenStore(api.NewFileTokenStore(tokenFile)))
	manager := session.NewManager(client, client, client,
		api.NewTable[member.TeamMember](client, "/api/v1/members"), logger)

	return &sdk{client: client, session: manager, logger: logger}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dashflow-token"
	}
	return filepath.Join(home, ".dashflow", "token")
}
