package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"pincorder/backend/storage"
	"pincorder/backend/store"
)

// opener connects to the configured database and media root.
type opener func() (*store.Store, storage.FileStorage, error)

func newRootCmd(out io.Writer, open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "pincorderctl",
		Short:         "Administrative tasks for the Pincorder backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(
		newMigrateCmd(open),
		newSeedUniversitiesCmd(open),
		newUniversitiesCmd(open),
		newDeleteUserCmd(open),
	)
	return root
}

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := open()
			if err != nil {
				return err
			}
			if err := s.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Schema is up to date."))
			return nil
		},
	}
}

func newSeedUniversitiesCmd(open opener) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-universities",
		Short: "Import universities from a name,short_name CSV file",
		Long: `Reads "name,short_name" rows and inserts them. Rows whose short name
already exists update the stored name, so the import can be re-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			s, _, err := open()
			if err != nil {
				return err
			}
			n, err := s.ImportUniversities(f)
			if err != nil {
				return fmt.Errorf("import %s: %w", file, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Imported %d universities.", n))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUniversitiesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "universities",
		Short: "List universities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := open()
			if err != nil {
				return err
			}
			unis, err := s.ListUniversities()
			if err != nil {
				return err
			}
			if len(unis) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No universities found."))
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"ID", "Name", "Short name"})
			for _, u := range unis {
				table.Append([]string{strconv.FormatUint(uint64(u.ID), 10), u.Name, u.ShortName})
			}
			table.Render()
			return nil
		},
	}
}

func newDeleteUserCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-user <username>",
		Short: "Delete a user with their profile, recordings and uploaded files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, files, err := open()
			if err != nil {
				return err
			}
			user, err := s.GetUserByUsername(args[0])
			if err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}
			paths, err := s.DeleteUser(user.ID)
			if err != nil {
				return err
			}
			for _, path := range paths {
				if err := files.Delete(path); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("could not delete %s: %v", path, err))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Deleted user %s (%d files).", user.Username, len(paths)))
			return nil
		},
	}
}
