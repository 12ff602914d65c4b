package main

import (
	"os"

	"github.com/spf13/cobra"

	"strategos/internal/export"
	"strategos/internal/types"
)

var (
	exportOut    string
	exportFormat string
)

// exportCmd writes the session's blueprint for an external planning surface.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the campaign blueprint",
	Long: `Writes the finalized blueprint as structured JSON or delimited text.
Content pieces are included when exporting through 'execute --out'; this
command exports the blueprint and positioning alone.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json or text")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireOrg(); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.machine.LoadFor(cmd.Context(), orgID)
	if err != nil {
		return err
	}
	if s.Blueprint == nil {
		return &types.ValidationError{Field: "blueprint", Reason: "not generated yet"}
	}

	doc := export.Build(s, nil)
	if exportOut == "" {
		switch exportFormat {
		case "text":
			return doc.WriteText(os.Stdout)
		case "json":
			return doc.WriteJSON(os.Stdout)
		default:
			return &types.ValidationError{Field: "format", Reason: "must be json or text"}
		}
	}
	return writeExport(doc, exportOut, exportFormat)
}
