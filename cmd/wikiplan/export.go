package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikiplan/wikiplan/internal/universe"
)

var exportCmd = &cobra.Command{
	Use:   "export <universe-id> <path>",
	Short: "Export a stored universe to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatFlag, _ := cmd.Flags().GetString("format")
		format, err := universe.ParseExportFormat(formatFlag)
		if err != nil {
			return err
		}
		store, err := universe.NewStore(outputDir())
		if err != nil {
			return err
		}
		if err := store.Export(args[0], args[1], format); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format: json or yaml")
	rootCmd.AddCommand(exportCmd)
}
