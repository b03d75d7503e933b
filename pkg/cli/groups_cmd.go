package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type groupView struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type groupListView struct {
	Groups []groupView `json:"groups"`
}

func newGroupsCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage groups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List the workspace's groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out groupListView
			if err := client.Do(cmd.Context(), http.MethodGet, "/workspaces/"+args[0]+"/groups", nil, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			rows := make([][]string, len(out.Groups))
			for i, g := range out.Groups {
				rows[i] = []string{g.ID, g.Name, g.Description}
			}
			return printTable(os.Stdout, []string{"ID", "NAME", "DESCRIPTION"}, rows)
		},
	})

	createCmd := &cobra.Command{
		Use:   "create <workspace-id> <name>",
		Short: "Create a group in a workspace",
		Args:  cobra.ExactArgs(2),
	}
	description := createCmd.Flags().String("description", "", "Group description")
	createCmd.RunE = func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[1], "description": *description}
		var out groupView
		if err := client.Do(cmd.Context(), http.MethodPost, "/workspaces/"+args[0]+"/groups", body, &out); err != nil {
			return err
		}
		if getOutputFormat(cmd) == "json" {
			return printJSON(os.Stdout, out)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Group %q created (%s)\n", out.Name, out.ID)
		return nil
	}
	cmd.AddCommand(createCmd)

	addCmd := &cobra.Command{
		Use:   "add-member <group-id> <account-id>",
		Short: "Add a workspace member to a group",
		Args:  cobra.ExactArgs(2),
	}
	role := addCmd.Flags().String("role", "member", "Group role (member, admin)")
	addCmd.RunE = func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"members": []map[string]string{{"account_id": args[1], "role": *role}},
		}
		if err := client.Do(cmd.Context(), http.MethodPost, "/groups/"+args[0]+"/members", body, nil); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(os.Stdout, "Member added")
		return nil
	}
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-member <group-id> <account-id>",
		Short: "Remove an account from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(cmd.Context(), http.MethodDelete, "/groups/"+args[0]+"/members/"+args[1], nil, nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "Member removed")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do(cmd.Context(), http.MethodDelete, "/groups/"+args[0], nil, nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "Group deleted")
			return nil
		},
	})

	return cmd
}
