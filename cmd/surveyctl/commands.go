package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"surveydesk/internal/export"
	"surveydesk/internal/model"
)

func newMigrateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables and seed the default accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()
			if _, err := app.connect(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date, default accounts present")
			return nil
		},
	}
}

func newUsersCmd(app *cli) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	users.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List accounts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()
			c, err := app.connect(ctx)
			if err != nil {
				return err
			}
			list, err := c.Users.List(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tCREATED")
			for _, u := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	})

	var role string
	add := &cobra.Command{
		Use:   "add <username> <password>",
		Short: "Create an account; existing usernames are left unchanged",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()
			c, err := app.connect(ctx)
			if err != nil {
				return err
			}
			created, err := c.Users.Add(ctx, args[0], args[1], model.Role(role))
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "username %q already exists\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", args[0], role)
			return nil
		},
	}
	add.Flags().StringVar(&role, "role", string(model.RoleManager), "Account role (administrador or gestor)")
	users.AddCommand(add)

	users.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an account by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 0)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctx, cancel := app.context(cmd)
			defer cancel()
			c, err := app.connect(ctx)
			if err != nil {
				return err
			}
			if err := c.Users.Remove(ctx, uint(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed user %d\n", id)
			return nil
		},
	})
	return users
}

func newExportCmd(app *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:       "export <hpo|lideranca|users>",
		Short:     "Write a table as CSV",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"hpo", "lideranca", "users"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.context(cmd)
			defer cancel()
			c, err := app.connect(ctx)
			if err != nil {
				return err
			}

			var data []byte
			switch args[0] {
			case "hpo":
				data, err = c.Reports.ExportScoredCSV(ctx)
			case "lideranca":
				data, err = c.Reports.ExportLeadershipCSV(ctx)
			case "users":
				var list []model.User
				if list, err = c.Users.List(ctx); err == nil {
					data, err = export.UsersCSV(list)
				}
			default:
				return fmt.Errorf("unknown table %q (want hpo, lideranca or users)", args[0])
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

const offlineUsage = "Confirm no server is running when Redis is not configured"

func newImportCmd(app *cli) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "import hpo <file>",
		Short: "Reinsert HPO responses from a CSV export",
		Long: `Reads a responses CSV written by "surveyctl export hpo" and inserts every row
in one transaction. Timestamps and session ids are kept; ids are reassigned.

Without Redis a running server caches responses in its own memory, which this
command cannot clear, so it refuses to run unless --offline is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "hpo" {
				return fmt.Errorf("only hpo imports are supported, got %q", args[0])
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := export.ParseScoredCSV(f)
			if err != nil {
				return err
			}

			ctx, cancel := app.context(cmd)
			defer cancel()
			c, err := app.connect(ctx)
			if err != nil {
				return err
			}
			if err := app.guardWrite(c, offline); err != nil {
				return err
			}
			n, err := c.Surveys.ImportScored(ctx, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d responses\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, offlineUsage)
	return cmd
}

func newClearCmd(app *cli) *cobra.Command {
	var yes, offline bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every response of both questionnaires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all responses without --yes")
			}
			ctx, cancel := app.context(cmd)
			defer cancel()
			c, err := app.connect(ctx)
			if err != nil {
				return err
			}
			if err := app.guardWrite(c, offline); err != nil {
				return err
			}
			if err := c.Surveys.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all responses deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the irreversible delete")
	cmd.Flags().BoolVar(&offline, "offline", false, offlineUsage)
	return cmd
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
