package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"spare-manager/core/sheet"
	"spare-manager/core/storage"
	"spare-manager/feature/devices"
	"spare-manager/feature/inspection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the devices commands
	importFromBucket bool

	exportDir    string
	exportModel  string
	exportUpload bool
)

// devicesCmd is the parent command for registry maintenance.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Import and export the device registry",
}

var devicesImportCmd = &cobra.Command{
	Use:   "import whitelist|blacklist <file>",
	Short: "Import devices from a spreadsheet",
	Long: `Import a whitelist (header row with 物料号, 物料描述, 机型, 备件数, 单位, 备注, 状态)
or a blacklist (two headerless columns: material id, description).
Devices whose identity already exists are skipped.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"whitelist", "blacklist"},
	RunE:      runDevicesImport,
}

var devicesExportCmd = &cobra.Command{
	Use:   "export blacklist|library",
	Short: "Export the blacklist or the spare library",
	Args:  cobra.ExactArgs(1),
	RunE:  runDevicesExport,
}

func init() {
	devicesImportCmd.Flags().BoolVar(&importFromBucket, "from-bucket", false, "Treat <file> as an object key in the storage bucket")

	devicesExportCmd.Flags().StringVar(&exportDir, "out", ".", "Directory to write the workbook to")
	devicesExportCmd.Flags().StringVar(&exportModel, "model", "", "Library model (default: every model)")
	devicesExportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Also upload the workbook to the storage bucket")

	devicesCmd.AddCommand(devicesImportCmd, devicesExportCmd)
	RootCmd.AddCommand(devicesCmd)
}

func runDevicesImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	kind, path := args[0], args[1]
	if kind != "whitelist" && kind != "blacklist" {
		return fmt.Errorf("unknown import kind %q", kind)
	}

	d, err := bootstrap()
	if err != nil {
		return err
	}
	defer d.logger.Sync()

	var grid sheet.Grid
	if importFromBucket {
		if d.storage == nil {
			return errors.New("--from-bucket requires storage.enabled")
		}
		data, err := storage.Download(ctx, d.storage, d.cfg.Storage.Bucket, path)
		if err != nil {
			return err
		}
		if grid, err = sheet.Parse(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	} else if grid, err = sheet.ParseFile(path); err != nil {
		return err
	}

	svc := devices.NewService(d.registry, d.logger)
	var res devices.ImportResult
	if kind == "whitelist" {
		res, err = svc.ImportWhitelist(ctx, grid)
	} else {
		res, err = svc.ImportBlacklist(ctx, grid)
	}
	if err != nil {
		return err
	}

	for _, issue := range res.Invalid {
		d.logger.Warn("Row skipped", zap.Int("row", issue.Row), zap.String("reason", issue.Reason))
	}
	return nil
}

func runDevicesExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, err := bootstrap()
	if err != nil {
		return err
	}
	defer d.logger.Sync()

	svc := devices.NewService(d.registry, d.logger)

	var (
		data []byte
		name string
	)
	switch args[0] {
	case "blacklist":
		data, err = svc.ExportBlacklist(ctx)
		name = "黑名单.xlsx"
	case "library":
		data, err = svc.ExportLibrary(ctx, exportModel)
		name = "易损件库.xlsx"
		if exportModel != "" {
			name = exportModel + "-易损件库.xlsx"
		}
	default:
		return fmt.Errorf("unknown export %q", args[0])
	}
	if err != nil {
		return err
	}

	out := filepath.Join(exportDir, name)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	d.logger.Info("Workbook written", zap.String("file", out))

	if exportUpload {
		publisher := inspection.NewService(d.registry, d.storage, d.cfg.Storage, d.cfg.Inspection, d.logger)
		object, err := publisher.Publish(ctx, name, data)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}
		d.logger.Info("Workbook uploaded", zap.String("object", object))
	}
	return nil
}
