// Package cli implements the workhub command-line client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
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
		host    string
		token   string
		output  string
		profile string
	)

	rootCmd := &cobra.Command{
		Use:           "workhub",
		Short:         "Workhub CLI",
		Long:          "Command-line interface for the workhub workspace permission API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "API host URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authentication")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")

	client := NewClient(host, token)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// Config file is optional.
		cfg, err := LoadUserConfig()
		if err != nil {
			cfg = &UserConfig{
				CurrentProfile: "default",
				Profiles:       map[string]Profile{},
			}
		}
		p := cfg.ActiveProfile(profile)

		// Precedence: flag > env > profile > default.
		if !cmd.Flags().Changed("host") {
			if v := os.Getenv("WORKHUB_HOST"); v != "" {
				host = v
			} else if p.Host != "" {
				host = p.Host
			}
		}
		if !cmd.Flags().Changed("token") {
			if v := os.Getenv("WORKHUB_TOKEN"); v != "" {
				token = v
			} else if p.Token != "" {
				token = p.Token
			}
		}
		if !cmd.Flags().Changed("output") {
			if v := os.Getenv("WORKHUB_OUTPUT"); v != "" {
				output = v
			} else if p.Output != "" {
				output = p.Output
			}
		}
		if err := validateOutputFormat(output); err != nil {
			return err
		}

		client.BaseURL = host
		client.Token = token
		return nil
	}

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWorkspacesCmd(client))
	rootCmd.AddCommand(newGroupsCmd(client))
	rootCmd.AddCommand(newPolicyCmd(client))

	return rootCmd
}
