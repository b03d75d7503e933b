package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type workspaceView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
}

type workspaceListView struct {
	Workspaces []workspaceView `json:"workspaces"`
}

type memberView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type memberListView struct {
	Members []memberView `json:"members"`
}

func newWorkspacesCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspaces",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces",
	}

	cmd.AddCommand(newWorkspacesListCmd(client))
	cmd.AddCommand(newWorkspacesGetCmd(client))
	cmd.AddCommand(newWorkspacesCreateCmd(client))
	cmd.AddCommand(newWorkspacesMembersCmd(client))

	return cmd
}

func newWorkspacesListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspaces you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out workspaceListView
			if err := client.Do(cmd.Context(), http.MethodGet, "/workspaces", nil, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			rows := make([][]string, len(out.Workspaces))
			for i, ws := range out.Workspaces {
				rows[i] = []string{ws.ID, ws.Name, ws.OwnerID}
			}
			return printTable(os.Stdout, []string{"ID", "NAME", "OWNER"}, rows)
		},
	}
}

func newWorkspacesGetCmd(client *Client) *cobra.Command {
	var include string

	cmd := &cobra.Command{
		Use:   "get <workspace-id>",
		Short: "Show one workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/workspaces/" + args[0]
			if include != "" {
				path += "?include=" + include
			}
			var out map[string]any
			if err := client.Do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}

	cmd.Flags().StringVar(&include, "include", "", "Expand sub-resources (groups, members, policies, all)")

	return cmd
}

func newWorkspacesCreateCmd(client *Client) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace owned by you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"name": args[0], "description": description}
			var out workspaceView
			if err := client.Do(cmd.Context(), http.MethodPost, "/workspaces", body, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Workspace %q created (%s)\n", out.Name, out.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Workspace description")

	return cmd
}

func newWorkspacesMembersCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage workspace members",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List workspace members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out memberListView
			if err := client.Do(cmd.Context(), http.MethodGet, "/workspaces/"+args[0]+"/members", nil, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			rows := make([][]string, len(out.Members))
			for i, m := range out.Members {
				rows[i] = []string{m.ID, m.Email, m.FirstName + " " + m.LastName}
			}
			return printTable(os.Stdout, []string{"ID", "EMAIL", "NAME"}, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <workspace-id> <account-id>...",
		Short: "Add accounts to a workspace",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{"account_ids": args[1:]}
			var out memberListView
			if err := client.Do(cmd.Context(), http.MethodPost, "/workspaces/"+args[0]+"/members", body, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			_, _ = fmt.Fprintf(os.Stdout, "Added %d member(s)\n", len(out.Members))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <workspace-id> <account-id>",
		Short: "Remove an account from a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(cmd.Context(), http.MethodDelete, "/workspaces/"+args[0]+"/members/"+args[1], nil, nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "Member removed")
			return nil
		},
	})

	return cmd
}
