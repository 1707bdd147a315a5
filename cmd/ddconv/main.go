package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/s0up4200/go-ddconv/internal/disk"
	"github.com/s0up4200/go-ddconv/internal/report"
	"github.com/s0up4200/go-ddconv/internal/settings"
	"github.com/s0up4200/go-ddconv/pkg/ddconv"
)

var version = "dev"

type rootOptions struct {
	force bool
	quiet bool
}

type infoOptions struct {
	reportFile string
	stdout     bool
	human      bool
	defects    bool
	zones      bool
}

var (
	opts     rootOptions
	infoOpts infoOptions
)

var rootCmd = &cobra.Command{
	Use:           "ddconv <ndd|mame|d64> <input> <output>",
	Short:         "Convert 64DD disk images between NDD, MAME and D64 formats.",
	Args:          cobra.ExactArgs(3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Write a report of the disk system area and identity",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update ddconv",
	Long:  "Update ddconv to latest version (release builds only).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSelfUpdate(cmd.Context())
	},
	DisableFlagsInUseLine: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "ddconv version: %s\n", version)
		return nil
	},
	DisableFlagsInUseLine: true,
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.force, "force", "f", false, "Overwrite existing output instead of backing it up")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print errors")

	infoCmd.Flags().StringVarP(&infoOpts.reportFile, "reportfilename", "o", "", "The report filename with extension")
	infoCmd.Flags().BoolVar(&infoOpts.stdout, "stdout", false, "Write report to stdout")
	infoCmd.Flags().BoolVar(&infoOpts.human, "human", false, "Print sizes in KB/MB (default on; use --human=false to disable)")
	infoCmd.Flags().BoolVar(&infoOpts.defects, "defects", false, "Include the defect track list (default on; use --defects=false to disable)")
	infoCmd.Flags().BoolVarP(&infoOpts.zones, "zones", "z", false, "Include the zone map of the disk type")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ddconv: %s\n", err.Error())
		os.Exit(1)
	}
}

// resolveSettings applies flags the user set explicitly on top of the
// defaults.
func resolveSettings(cmd *cobra.Command) settings.Settings {
	cwd, _ := os.Getwd()
	s := settings.Default(cwd)

	flags := cmd.Flags()
	if flags.Changed("force") {
		s.Force = opts.force
	}
	if flags.Changed("quiet") {
		s.Quiet = opts.quiet
	}
	if flags.Changed("human") {
		s.HumanSizes = infoOpts.human
	}
	if flags.Changed("defects") {
		s.IncludeDefects = infoOpts.defects
	}
	if flags.Changed("zones") {
		s.IncludeZoneMap = infoOpts.zones
	}
	if infoOpts.reportFile != "" {
		s.ReportFileName = infoOpts.reportFile
	}
	if infoOpts.stdout {
		s.ReportFileName = "-"
	}
	return s
}

func runRoot(cmd *cobra.Command, args []string) error {
	target, err := ddconv.ParseFormat(args[0])
	if err != nil {
		return err
	}
	s := resolveSettings(cmd)
	out := cmd.OutOrStdout()
	if s.Quiet {
		out = io.Discard
	}
	return convertFile(cmd.Context(), out, target, args[1], args[2], s)
}

func convertFile(ctx context.Context, out io.Writer, target ddconv.Format, input, output string, s settings.Settings) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	source := ddconv.DetectFormat(len(data))
	if source == ddconv.FormatUnknown {
		return fmt.Errorf("%s: unknown disk format: %w", input, ddconv.ErrSizeMismatch)
	}
	fmt.Fprintf(out, "Disk is %s format.\n", source.Label())
	if source == target {
		return fmt.Errorf("disk is already %s format", target.Label())
	}

	res, err := ddconv.Convert(ctx, ddconv.Options{
		Data:   data,
		Target: target,
		OnProgress: func(ev ddconv.ProgressEvent) {
			switch ev.Stage {
			case ddconv.StageConverting:
				fmt.Fprintf(out, "Converting to %s format...\n", ev.Target.Label())
			case ddconv.StageConverted:
				fmt.Fprintf(out, "Conversion done. Writing file...\n")
			}
		},
	})
	if err != nil {
		return err
	}

	if err := writeOutput(output, res.Output, s.Force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Complete.\n")
	return nil
}

func writeOutput(path string, data []byte, force bool) error {
	if !force {
		report.BackupExisting(path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	s := resolveSettings(cmd)
	reportPath, err := inspectFile(args[0], s)
	if err != nil {
		return err
	}
	if reportPath != "-" && !s.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", reportPath)
	}
	return nil
}

func inspectFile(input string, s settings.Settings) (string, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return "", err
	}
	img, err := disk.Load(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", input, err)
	}
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return report.WriteReport("", name, img, s)
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug("s0up4200/go-ddconv"))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", "s0up4200/go-ddconv", version)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to version: %s\n", latest.Version())
	return nil
}
