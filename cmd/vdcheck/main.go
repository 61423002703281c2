package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nicholasgasior/vdcheck/internal/config"
	"github.com/nicholasgasior/vdcheck/internal/core"
	"github.com/nicholasgasior/vdcheck/internal/report"
	"github.com/nicholasgasior/vdcheck/internal/selftest"
	"github.com/nicholasgasior/vdcheck/pkg/types"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vdcheck",
		Short: "vdcheck - why isn't my browser using the GPU to decode video?",
		Long: `vdcheck inspects the NVIDIA VA-API video decoding stack on a Linux
desktop and explains which setting is blocking hardware decoding in
Firefox. ` + types.Tagline,
		Version: types.Version,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(selftestCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(types.ExitUsage)
	}
}

func runCmd() *cobra.Command {
	cfg := types.DefaultRunConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full diagnostic and print the report",
		Long: `Run every check and print the classified report.

The exit code is 0 whenever the run completes, whatever the verdict;
the report content carries the diagnosis. Non-zero exits are reserved
for usage errors.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			fileCfg.Apply(&cfg, cmd.Flags().Changed)
			return runDiagnostic(cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-subprocess timeout in seconds")
	cmd.Flags().BoolVar(&cfg.JSON, "json", false, "Emit the report as JSON instead of text")
	cmd.Flags().BoolVar(&cfg.NoColor, "no-color", false, "Disable styled output")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Include per-source resolver notes")
	cmd.Flags().BoolVar(&cfg.NoSudo, "no-sudo", false, "Never attempt the escalated kernel-parameter retry")
	cmd.Flags().StringVar(&cfg.ProfileDir, "profile", "", "Explicit Firefox profile directory")
	cmd.Flags().StringVar(&cfg.Overrides, "overrides", "", "Path to an expectation-override YAML file")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a vdcheck.yaml config file")

	return cmd
}

func runDiagnostic(cfg types.RunConfig) error {
	printFn := func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	}
	if cfg.JSON {
		printFn = func(string) {}
	}

	result, err := core.Run(cfg, printFn)
	if err != nil {
		return err
	}

	if cfg.JSON {
		out, err := report.GenerateJSON(result)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	styled := !cfg.NoColor && isatty.IsTerminal(os.Stdout.Fd())
	fmt.Print(report.GenerateText(result, report.NewStyler(styled), cfg.Verbose))
	return nil
}

func selftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Verify that the probes vdcheck depends on are available",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			selftest.Run()
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vdcheck version %s\n", types.Version)
		},
	}
}
