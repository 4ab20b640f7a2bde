//go:build linux && amd64

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/pbnjay/memory"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"gopkg.in/yaml.v3"

	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/pkg/tscwall"
)

var (
	cfgPath    string
	outputJSON bool
	outputYAML bool
)

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(func(string, ...any) {})); err != nil {
		slog.Warn("automaxprocs: could not set GOMAXPROCS", "err", err)
	}

	root := &cobra.Command{
		Use:   "tscwall",
		Short: "TSC reliability and conversion-parameter library",
		Long: `tscwall measures whether a machine's Time-Stamp Counters are usable as a
shared, monotonic, cross-CPU clock, and builds the division-free
multiply-shift constants to convert raw TSC values to nanoseconds.

* GitHub: https://github.com/tscwall/tscwall`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			printHostSummary()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "TOML config file overriding the built-in defaults")
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "emit JSON instead of a table")
	root.PersistentFlags().BoolVar(&outputYAML, "yaml", false, "emit YAML instead of a table")

	root.AddCommand(carouselCmd(), casCmd(), convertCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFile(cfgPath)
}

func carouselCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "carousel",
		Short: "Evaluate TSC reliability using the carousel sampler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := tscwall.EvaluateCarousel(cfg)
			if err != nil {
				slog.Warn("carousel evaluation reported a non-ok status", "status", result.Status, "err", err)
			}
			return printResult(result)
		},
	}
}

func casCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cas",
		Short: "Evaluate TSC reliability using the CAS-ordered prober",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := tscwall.EvaluateCAS(cfg)
			if err != nil {
				slog.Warn("cas evaluation reported a non-ok status", "status", result.Status, "err", err)
			}
			return printResult(result)
		},
	}
}

func convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Build multiply-shift TSC-to-nanosecond conversion parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			report, err := tscwall.BuildConversionParams(cfg)
			if err != nil {
				slog.Warn("conversion build reported a non-ok status", "status", report.Status, "err", err)
			}
			return printReport(report)
		},
	}
}

func printResult(r tscwall.Result) error {
	switch {
	case outputJSON:
		return json.NewEncoder(os.Stdout).Encode(r)
	case outputYAML:
		return yaml.NewEncoder(os.Stdout).Encode(r)
	default:
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MAX_SHIFT\tMONOTONIC\tSTATUS\tMESSAGE")
		fmt.Fprintf(tw, "%d\t%v\t%s\t%s\n", r.MaxShift, r.Monotonic, r.Status, r.Message)
		return tw.Flush()
	}
}

func printReport(r tscwall.ConversionReport) error {
	switch {
	case outputJSON:
		return json.NewEncoder(os.Stdout).Encode(r)
	case outputYAML:
		return yaml.NewEncoder(os.Stdout).Encode(r)
	default:
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MULT\tSHIFT\tNS_PER_TSC_MODULUS\tSECS_BEFORE_WRAP\tSTATUS\tMESSAGE")
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n",
			r.Params.Mult, r.Params.Shift, r.Params.NsPerTSCModulus, r.SecsBeforeWrap, r.Status, r.Message)
		return tw.Flush()
	}
}

func printHostSummary() {
	host, _ := os.Hostname()
	fmt.Printf("tscwall - TSC Reliability and Conversion Library\n\n")
	fmt.Printf("       Host: %s\n", host)
	fmt.Printf("       CPUs: %d\n", runtime.NumCPU())
	fmt.Printf("       Mem:  %d MiB\n\n", memory.TotalMemory()/(1024*1024))
}
