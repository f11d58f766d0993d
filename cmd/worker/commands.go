package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lpworks/lp-intake-backend/internal/bootstrap"
	"github.com/lpworks/lp-intake-backend/internal/jobs"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "worker",
		Short:         "Maintenance commands for LP intake projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newNumberCmd(),
		newListCmd(),
		newSnapshotCmd(),
		newBackupRegistryCmd(),
	)
	return root
}

func newNumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "number <project-id>",
		Short: "Print the project number, assigning one if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				n, err := app.Registry.GetOrCreate(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects from the ephemeral store and Google Drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.Projects.List(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(items)
				}
				return printSummaries(cmd.OutOrStdout(), items)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <project-id> [prefix]",
		Short: "Write the project record to its Google Drive folder",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) == 2 {
				prefix = args[1]
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				pair, err := app.Projects.Snapshot(ctx, args[0], prefix)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "folder=%s json=%s readable=%s\n", pair.FolderID, pair.JSONFileID, pair.ReadableFileID)
				return nil
			})
		},
	}
}

func newBackupRegistryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup-registry",
		Short: "Upload the project number registry to the Google Drive root folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.App) error {
				backup := &jobs.RegistryBackup{Registry: app.Registry, Drive: app.Drive, FolderID: app.Config.Drive.RootFolderID}
				id, err := backup.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
}

func printSummaries(w io.Writer, items []domain.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tPROJECT ID\tSERVICE\tSOURCE\tUPDATED")
	for _, s := range items {
		updated := "-"
		if s.UpdatedAt != nil {
			updated = s.UpdatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ProjectNumber, s.ProjectID, s.BasicInfo[domain.FieldServiceName], s.Source, updated)
	}
	return tw.Flush()
}
