package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ethvanity/internal/config"
	"ethvanity/internal/logger"
	"ethvanity/internal/ui"
	"ethvanity/pkg/worker"
)

const version = "1.0.0"

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:     "ethvanity",
	Version: version,
	Short:   "Vanity Ethereum address miner",
	Long: `ethvanity brute-forces Ethereum addresses matching a hex pattern.

The eoa command searches private keys for externally owned accounts; the
safe command searches CREATE2 salt nonces for Safe proxy deployments.

Examples:
  ethvanity eoa --pattern dead
  ethvanity eoa --pattern c0ffee --suffix beef --gpu
  ethvanity safe --pattern 5afe --factory 0x... --init-code-hash 0x... --initializer-hash 0x...`,
}

var eoaCmd = &cobra.Command{
	Use:   "eoa",
	Short: "Search private keys for a matching account address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runSearch(worker.EOADeriver{})
	},
}

var safeCmd = &cobra.Command{
	Use:   "safe",
	Short: "Search CREATE2 salt nonces for a matching Safe proxy address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateSafe(); err != nil {
			return err
		}
		factory, err := cfg.FactoryBytes()
		if err != nil {
			return err
		}
		initCodeHash, err := cfg.InitCodeHashBytes()
		if err != nil {
			return err
		}
		initializerHash, err := cfg.InitializerHashBytes()
		if err != nil {
			return err
		}
		return runSearch(&worker.SafeDeriver{
			Factory:         factory,
			InitCodeHash:    initCodeHash,
			InitializerHash: initializerHash,
		})
	},
}

var gpusCmd = &cobra.Command{
	Use:   "gpus",
	Short: "List usable OpenCL GPU devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !worker.GPUAvailable() {
			fmt.Println("no GPU devices available")
			return nil
		}
		for i, name := range worker.ListDevices() {
			fmt.Printf("  [%d] %s\n", i, name)
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfg.Pattern, "pattern", "p", "", "hex pattern the address must contain (position set by --type)")
	pf.StringVarP(&cfg.Suffix, "suffix", "s", "", "hex suffix; combined with --pattern this forces a prefix+suffix search")
	pf.StringVarP(&cfg.Type, "type", "t", "prefix", "match type: prefix, suffix, contains")
	pf.IntVarP(&cfg.Threads, "workers", "w", cfg.Threads, "number of CPU workers")
	pf.IntVarP(&cfg.Count, "count", "n", 1, "how many matching addresses to find (0 = run until interrupted)")
	pf.IntVarP(&cfg.ReportInterval, "report-interval", "r", 1, "seconds between progress lines")
	pf.BoolVarP(&cfg.CaseSensitive, "case-sensitive", "c", false, "keep the pattern's casing instead of lowercasing it")
	pf.BoolVar(&cfg.GPU, "gpu", false, "also run an OpenCL GPU worker (eoa only)")
	pf.IntVar(&cfg.GPUDevice, "gpu-device", 0, "OpenCL device index (see the gpus command)")
	pf.IntVar(&cfg.GPUWorkSize, "gpu-work-size", 0, "lanes per GPU dispatch (0 = default)")

	rootCmd.AddCommand(eoaCmd, safeCmd, gpusCmd)
}

func runSearch(deriver worker.Deriver) error {
	pattern := cfg.BuildPattern()

	ui.PrintBanner(version)
	ui.PrintSearchInfo(cfg.TargetDescription(), deriver.Name(),
		pattern.DifficultyDescription(), cfg.WorkerCount(), cfg.GPU)

	pool := worker.NewPool(worker.Config{
		Workers: cfg.WorkerCount(),
		Pattern: pattern,
		Deriver: deriver,
		GPU: worker.GPUOptions{
			Enabled:     cfg.GPU,
			DeviceIndex: cfg.GPUDevice,
			WorkSize:    cfg.GPUWorkSize,
		},
		Logger: logger.New(),
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println()
		pool.Stop()
	}()

	found := 0
	for cfg.Count <= 0 || found < cfg.Count {
		rec, ok := pool.WaitForResult(cfg.ReportEvery())
		if ok {
			found++
			ui.PrintMatch(found, rec)
			continue
		}
		if pool.IsStopped() {
			break
		}
		ui.PrintProgress(pool.TotalTested(), pool.PerSecond(), pool.Elapsed(), found, cfg.Count)
	}

	interrupted := pool.IsStopped()
	pool.Join()

	// Matches can still be buffered when the target count was reached by
	// several workers at once; drain what fits under the target.
	for cfg.Count <= 0 || found < cfg.Count {
		rec, ok := pool.TryResult()
		if !ok {
			break
		}
		found++
		ui.PrintMatch(found, rec)
	}

	ui.PrintOutcome(interrupted)
	ui.PrintSummary(pool.TotalTested(), pool.Elapsed(), found)
	return nil
}
