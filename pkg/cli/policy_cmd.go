package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type policyHolderView struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`
}

type policyView struct {
	ID           string           `json:"id"`
	HolderType   string           `json:"policy_holder_type"`
	PolicyHolder policyHolderView `json:"policy_holder"`
	Permissions  []string         `json:"permissions"`
}

type policyListView struct {
	Policies []policyView `json:"policies"`
}

type resolvedPolicyView struct {
	Permissions  []string         `json:"permissions"`
	PolicyHolder policyHolderView `json:"policy_holder"`
}

func newPolicyCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect and set workspace policies",
	}

	cmd.AddCommand(newPolicyListCmd(client))
	cmd.AddCommand(newPolicyResolveCmd(client))
	cmd.AddCommand(newPolicySetCmd(client))
	cmd.AddCommand(newPolicyDeleteCmd(client))

	return cmd
}

func newPolicyListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List all stored policies in a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out policyListView
			if err := client.Do(cmd.Context(), http.MethodGet, "/workspaces/"+args[0]+"/policies", nil, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			rows := make([][]string, len(out.Policies))
			for i, p := range out.Policies {
				holder := p.PolicyHolder.Email
				if holder == "" {
					holder = p.PolicyHolder.Name
				}
				rows[i] = []string{p.HolderType, p.PolicyHolder.ID, holder, strings.Join(p.Permissions, ",")}
			}
			return printTable(os.Stdout, []string{"TYPE", "HOLDER", "IDENTITY", "PERMISSIONS"}, rows)
		},
	}
}

func newPolicyResolveCmd(client *Client) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "resolve <workspace-id>",
		Short: "Resolve an account's effective permissions in a workspace",
		Long:  "Resolves the effective permission set (owner bypass, direct grant, and group grants unioned). Defaults to your own account.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/workspaces/" + args[0] + "/policy"
			if accountID != "" {
				path += "?account_id=" + url.QueryEscape(accountID)
			}
			var out resolvedPolicyView
			if err := client.Do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			for _, p := range out.Permissions {
				_, _ = fmt.Fprintln(os.Stdout, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "Account to resolve (defaults to the caller)")

	return cmd
}

func newPolicySetCmd(client *Client) *cobra.Command {
	var (
		holderType string
		holderID   string
	)

	cmd := &cobra.Command{
		Use:   "set <workspace-id> <permission>...",
		Short: "Replace a holder's permission set in a workspace",
		Long:  "Installs the listed permissions for the holder, replacing whatever set was stored before. Pass zero permissions to revoke all access while keeping the record.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"policy_holder_type": holderType,
				"policy_holder_id":   holderID,
				"permissions":        args[1:],
			}
			var out map[string]any
			if err := client.Do(cmd.Context(), http.MethodPut, "/workspaces/"+args[0]+"/policy", body, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Policy set for %s %s (%d permission(s))\n", holderType, holderID, len(args)-1)
			return nil
		},
	}

	cmd.Flags().StringVar(&holderType, "holder-type", "account", "Holder type (account, group)")
	cmd.Flags().StringVar(&holderID, "holder", "", "Holder id (required)")
	_ = cmd.MarkFlagRequired("holder")

	return cmd
}

func newPolicyDeleteCmd(client *Client) *cobra.Command {
	var (
		holderType string
		holderID   string
	)

	cmd := &cobra.Command{
		Use:   "revoke <workspace-id>",
		Short: "Revoke all of a holder's permissions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"policy_holder_type": holderType,
				"policy_holder_id":   holderID,
				"permissions":        []string{},
			}
			if err := client.Do(cmd.Context(), http.MethodPut, "/workspaces/"+args[0]+"/policy", body, nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(os.Stdout, "Permissions revoked for %s %s\n", holderType, holderID)
			return nil
		},
	}

	cmd.Flags().StringVar(&holderType, "holder-type", "account", "Holder type (account, group)")
	cmd.Flags().StringVar(&holderID, "holder", "", "Holder id (required)")
	_ = cmd.MarkFlagRequired("holder")

	return cmd
}
