package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/pkg/utils"
)

var (
	exportFormat string
	exportOut    string
	exportKind   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export registered objects to CSV or Excel",
	Long: `Export writes every registered object, optionally only lost or found
ones, to a CSV or XLSX report. Without --out the file is created in the
data directory as achados_relatorio_<date>.<format>.

Example:
  achados export --format xlsx
  achados export --format csv --type found --out encontrados.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "csv or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file")
	exportCmd.Flags().StringVar(&exportKind, "type", "", "lost or found (default: both)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "xlsx" {
		return fmt.Errorf("unknown format %q (valid: csv, xlsx)", exportFormat)
	}
	kind := models.ObjectKind(exportKind)
	if kind != "" && kind != models.KindLost && kind != models.KindFound {
		return fmt.Errorf("unknown type %q (valid: lost, found)", exportKind)
	}

	a, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	objects, err := a.store.ListObjects(cmd.Context(), models.ObjectFilter{Kind: kind})
	if err != nil {
		return fmt.Errorf("list objects: %w", err)
	}

	path := exportOut
	if path == "" {
		path = filepath.Join(a.dataDir, utils.ExportFileName(exportFormat, time.Now()))
	}
	if exportFormat == "csv" {
		err = utils.ExportObjectsToCSV(objects, path)
	} else {
		err = utils.ExportObjectsToExcel(objects, path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d objetos exportados para %s\n", len(objects), path)
	for label, n := range utils.Summary(objects) {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", label, n)
	}
	return nil
}
