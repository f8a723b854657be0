package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"spare-manager/core/logger"
	"spare-manager/core/utils"
	"spare-manager/feature/inspection"
	"spare-manager/feature/inspection/models"
	"spare-manager/feature/inspection/reconcile"
	"spare-manager/feature/inspection/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the process command
	bucketPrefix     string
	reportOut        string
	uploadReport     bool
	blacklistUnknown bool
	skipUnknown      bool
)

// processCmd runs one inspection from the command line.
var processCmd = &cobra.Command{
	Use:   "process [paths...]",
	Short: "Classify spreadsheets and write the vulnerable parts report",
	Long: `Classify equipment spreadsheets against the device registry, resolve the
unknown devices interactively and write the vulnerable parts report.

Paths may be files or directories (searched recursively for .xlsx/.xlsm).

Examples:
  # Interactive run over a directory
  process ./inspections/2026-10

  # Read the spreadsheets from the bucket and publish the report
  process --bucket-prefix inbox/2026-10/ --upload

  # Non-interactive: blacklist everything unknown
  process ./inspections --blacklist-unknown --out report.xlsx`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&bucketPrefix, "bucket-prefix", "", "Read spreadsheets from the storage bucket under this prefix")
	processCmd.Flags().StringVar(&reportOut, "out", "", "Report file to write (default: <report title>-<date>.xlsx)")
	processCmd.Flags().BoolVar(&uploadReport, "upload", false, "Also upload the report to the storage bucket")
	processCmd.Flags().BoolVar(&blacklistUnknown, "blacklist-unknown", false, "Blacklist every unknown device without prompting")
	processCmd.Flags().BoolVar(&skipUnknown, "skip-unknown", false, "Leave unknown devices unresolved without prompting")

	RootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 0 && bucketPrefix == "" {
		return errors.New("no input: pass spreadsheet paths or --bucket-prefix")
	}
	if blacklistUnknown && skipUnknown {
		return errors.New("--blacklist-unknown and --skip-unknown are mutually exclusive")
	}

	d, err := bootstrap()
	if err != nil {
		return err
	}
	l := d.logger
	defer l.Sync()

	svc := inspection.NewService(d.registry, d.storage, d.cfg.Storage, d.cfg.Inspection, l)

	// Step 1: Classify
	var run inspection.Run
	if bucketPrefix != "" {
		l.Info("Processing bucket", zap.String("bucket", d.cfg.Storage.Bucket), zap.String("prefix", bucketPrefix))
		run, err = svc.ProcessBucket(ctx, bucketPrefix)
	} else {
		var files []source.File
		files, err = source.Local(args...)
		if err != nil {
			return fmt.Errorf("failed to collect spreadsheets: %w", err)
		}
		l.Info("Processing files", zap.Int("count", len(files)))
		run, err = svc.Process(ctx, files)
	}
	if err != nil {
		return fmt.Errorf("failed to process spreadsheets: %w", err)
	}

	// Step 2: Print report
	printRunReport(l, run)

	// Step 3: Resolve unknown devices
	if n := len(run.State.Candidates); n > 0 {
		switch {
		case skipUnknown:
			l.Info("Unknown devices left unresolved", zap.Int("count", n))
		default:
			p := newPrompter(os.Stdin, os.Stdout)
			run, err = resolveUnknown(ctx, svc, run, p, d.registry.Scheme().Composite())
			if err != nil {
				return err
			}
			l.Info("Unknown devices resolved", zap.Int("count", n))
		}
	}

	// Step 4: Write the report
	data, err := svc.Report(run.ID)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	out := reportOut
	if out == "" {
		out = fmt.Sprintf("%s-%s.xlsx", d.cfg.Inspection.ReportTitle, time.Now().Format("20060102"))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	l.Info("Report written", zap.String("file", out), zap.Int("entries", run.State.Vulnerable.Len()))

	if uploadReport {
		object, err := svc.Publish(ctx, filepath.Base(out), data)
		if err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		l.Info("Report uploaded", zap.String("object", object))
	}
	return nil
}

// resolveUnknown collects one decision per candidate and confirms them. A
// rejected decision is asked again for the failing row only.
func resolveUnknown(ctx context.Context, svc *inspection.Service, run inspection.Run, p *prompter, composite bool) (inspection.Run, error) {
	candidates := run.State.Candidates
	decisions := make([]reconcile.Decision, len(candidates))

	if !blacklistUnknown {
		for i, c := range candidates {
			dec, err := p.decide(c, i+1, len(candidates), composite)
			if err != nil {
				return run, err
			}
			decisions[i] = dec
		}
	}

	for {
		next, err := svc.Confirm(ctx, run.ID, decisions)
		if err == nil {
			return next, nil
		}

		var verr *reconcile.ValidationError
		if blacklistUnknown || !errors.As(err, &verr) {
			return run, fmt.Errorf("failed to confirm decisions: %w", err)
		}

		fmt.Fprintf(p.out, "\n✗ %v\n", verr)
		i := verr.Row - 1
		dec, err := p.decide(candidates[i], verr.Row, len(candidates), composite)
		if err != nil {
			return run, err
		}
		decisions[i] = dec
	}
}

// printRunReport prints a run summary using the logger.
func printRunReport(l *zap.Logger, run inspection.Run) {
	s := run.Summary

	logger.WithRun(l, run.ID).Info("Inspection report",
		zap.Int("files", s.TotalFiles),
		zap.Int("failed_files", s.FailedFiles),
		zap.Int("rows", s.TotalRows),
		zap.Int("extracted_rows", s.ExtractedRows),
		zap.Int("matched_white", s.MatchedWhite),
		zap.Int("matched_black", s.MatchedBlack),
		zap.Int("unknown", s.Unknown),
		zap.Int("vulnerable", s.Vulnerable),
	)

	for _, f := range run.Failed {
		l.Warn("File skipped", zap.String("file", f.File), zap.String("reason", f.Error))
	}

	// Show sample of unknown devices (max 5 for logger)
	maxShow := min(5, len(run.State.Candidates))
	for _, c := range run.State.Candidates[:maxShow] {
		l.Info("Unknown device",
			zap.String("erp_code", c.ErpCode),
			zap.String("model", c.Model),
			zap.String("description", c.Description),
		)
	}
	if len(run.State.Candidates) > maxShow {
		l.Info("Additional unknown devices not shown", zap.Int("count", len(run.State.Candidates)-maxShow))
	}
}

// prompter asks the operator for reconciliation decisions.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// ask prints label and returns the trimmed answer, or def for an empty one.
func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	if line = strings.TrimSpace(line); line == "" {
		return def, nil
	}
	return line, nil
}

// decide walks the operator through one candidate.
func (p *prompter) decide(c models.Candidate, row, total int, composite bool) (reconcile.Decision, error) {
	model := c.Model
	if model == "" {
		model = "-"
	}
	fmt.Fprintf(p.out, "\n[%d/%d] %s  %s  (%s)\n", row, total, c.ErpCode, c.Description, model)

	answer, err := p.ask("Vulnerable part? (y/N)", "n")
	if err != nil {
		return reconcile.Decision{}, err
	}
	d := reconcile.Decision{IsVulnerable: utils.ToBool(answer)}
	if !d.IsVulnerable {
		return d, nil
	}

	if d.Description, err = p.ask("Description", c.Description); err != nil {
		return d, err
	}

	countDefault := ""
	if c.SpareCount > 0 {
		countDefault = strconv.Itoa(c.SpareCount)
	}
	count, err := p.ask("Suggested spare count", countDefault)
	if err != nil {
		return d, err
	}
	d.SpareCount = utils.ToInt(count)

	if d.Unit, err = p.ask("Unit", c.Unit); err != nil {
		return d, err
	}
	if d.Remark, err = p.ask("Remark", c.Remark); err != nil {
		return d, err
	}

	if composite {
		selected, err := p.ask("Models (comma separated)", c.Model)
		if err != nil {
			return d, err
		}
		for _, m := range strings.FieldsFunc(selected, func(r rune) bool { return r == ',' || r == '，' }) {
			if m = strings.TrimSpace(m); m != "" {
				d.Models = append(d.Models, m)
			}
		}
	}
	return d, nil
}
