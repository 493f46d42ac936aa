package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the whole journal as a JSON array",
	Long:  `Writes every dream to the given file, or to stdout when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if len(args) == 0 {
			return a.svc.ExportTo(cmd.Context(), cmd.OutOrStdout())
		}
		n, err := a.svc.Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to export dreams: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d dreams to %s.\n", n, args[0])
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge dreams from a JSON export",
	Long:  `Appends dreams from the file that are not already in the journal. A dream is already present when one has the same date and the same first 50 characters of text.`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		n, err := a.svc.Import(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to import dreams: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new dreams.\n", n)
		return nil
	}),
}

var cleanupImagesCmd = &cobra.Command{
	Use:   "cleanup-images",
	Short: "Remove old generated images no dream refers to",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		maxAge := a.cfg.Images.OrphanAge
		if cmd.Flags().Changed("older-than") {
			maxAge, _ = cmd.Flags().GetDuration("older-than")
		}
		n := a.svc.CleanupImages(cmd.Context(), maxAge)
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d orphan image(s) from %s.\n", n, a.images.Path())
		return nil
	}),
}

func initTransferCmds() {
	cleanupImagesCmd.Flags().Duration("older-than", 0, "Minimum age of removed images (default: images.orphan_age)")
	rootCmd.AddCommand(exportCmd, importCmd, cleanupImagesCmd)
}
