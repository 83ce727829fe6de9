package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kilc/internal/backend"
	"kilc/internal/diag"
	"kilc/internal/diagfmt"
	"kilc/internal/driver"
	"kilc/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [program.toml|program.ilpk]",
	Short: "Scan an IL program graph and emit assembly",
	Long: `Scan loads a linked program graph, converts every reachable unit with the
selected target and writes one .asm file per unit. Without an argument the input
comes from kilc.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: scanExecution,
}

func init() {
	scanCmd.Flags().String("target", driver.DefaultTarget, "target architecture")
	scanCmd.Flags().StringP("output", "o", "", "directory for generated .asm files (empty: do not write)")
	scanCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	scanCmd.Flags().Bool("strict", false, "exit 1 when any unit only partially converted")
	scanCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type scanSettings struct {
	input          string
	target         string
	output         string
	format         string
	strict         bool
	maxDiagnostics int
}

// resolveScanSettings merges kilc.toml with flags; flags set explicitly win.
func resolveScanSettings(cmd *cobra.Command, args []string, manifest *projectManifest) (scanSettings, error) {
	var s scanSettings
	var err error
	if s.target, err = cmd.Flags().GetString("target"); err != nil {
		return s, err
	}
	if s.output, err = cmd.Flags().GetString("output"); err != nil {
		return s, err
	}
	if s.format, err = cmd.Flags().GetString("format"); err != nil {
		return s, err
	}
	if s.strict, err = cmd.Flags().GetBool("strict"); err != nil {
		return s, err
	}
	if s.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if len(args) > 0 {
		s.input = args[0]
	}

	if manifest != nil {
		build := manifest.Config.Build
		if s.input == "" {
			s.input = manifest.resolve(build.Input)
		}
		if !cmd.Flags().Changed("target") && build.Target != "" {
			s.target = build.Target
		}
		if !cmd.Flags().Changed("output") && build.Output != "" {
			s.output = manifest.resolve(build.Output)
		}
		if !cmd.Flags().Changed("strict") {
			s.strict = build.Strict
		}
		if !cmd.Root().PersistentFlags().Changed("max-diagnostics") && manifest.Config.Diagnostics.Max > 0 {
			s.maxDiagnostics = manifest.Config.Diagnostics.Max
		}
	}

	if s.maxDiagnostics < 1 || s.maxDiagnostics > diag.MaxLimit {
		return s, fmt.Errorf("max diagnostics %d out of range (1..%d)", s.maxDiagnostics, diag.MaxLimit)
	}

	switch s.format {
	case "pretty", "short", "json":
	default:
		return s, fmt.Errorf("unsupported format %q (must be pretty, short or json)", s.format)
	}
	if s.input == "" {
		return s, errors.New("no input program\nplease pass a .toml or .ilpk file, or add [build].input to kilc.toml")
	}
	return s, nil
}

func scanExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !colorOn

	manifest, _, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	settings, err := resolveScanSettings(cmd, args, manifest)
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	failed := true
	defer func() { cleanup(failed) }()

	req := driver.Request{
		Input:          settings.input,
		Target:         settings.target,
		OutputDir:      settings.output,
		MaxDiagnostics: settings.maxDiagnostics,
		Timings:        timings && settings.format == "json",
	}

	var res *driver.Result
	if shouldUseTUI(uiModeValue) && !quiet && settings.format != "json" {
		title := fmt.Sprintf("kilc scan %s", filepath.Base(settings.input))
		res, err = runCompileWithUI(cmd.Context(), title, req)
	} else {
		res, err = driver.Compile(cmd.Context(), req)
	}
	if err != nil {
		var cfgErr *backend.ConfigurationError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("%s: %w", cfgErr.Code().ID(), err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch settings.format {
	case "json":
		if err := diagfmt.JSON(out, res.Bag, diagfmt.JSONOpts{Max: settings.maxDiagnostics, IncludeTitle: true}); err != nil {
			return err
		}
	case "short":
		if text := diag.FormatShortDiagnostics(res.Bag.Items()); text != "" {
			fmt.Fprintln(out, text)
		}
	default:
		diagfmt.Pretty(out, res.Bag, diagfmt.PrettyOpts{Color: colorOn, GroupByUnit: true})
	}

	if !quiet && settings.format != "json" {
		fmt.Fprint(out, renderSummary(res))
		if timings {
			fmt.Fprintln(out, strings.TrimRight(res.Timer.Summary(), "\n"))
		}
	}

	failed = res.Status == scanner.StatusFail
	if code := exitCodeFor(res.Status, settings.strict); code != 0 {
		return exitError{code: code}
	}
	return nil
}

func exitCodeFor(st scanner.Status, strict bool) int {
	switch st {
	case scanner.StatusFail:
		return 1
	case scanner.StatusPartialFailure:
		if strict {
			return 1
		}
	}
	return 0
}
