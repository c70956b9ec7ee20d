package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/strata/internal/engine"
	"github.com/ajitpratap0/strata/pkg/arrowio"
	"github.com/ajitpratap0/strata/pkg/compression"
	"github.com/ajitpratap0/strata/pkg/config"
	"github.com/ajitpratap0/strata/pkg/logger"
	"github.com/ajitpratap0/strata/pkg/metrics"
	"github.com/ajitpratap0/strata/pkg/observability"
	"github.com/ajitpratap0/strata/pkg/performance"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var configFile, logLevel string
	var workers, chunkSize int
	var seed int64
	var enableTracing bool

	root := &cobra.Command{
		Use:   "strata",
		Short: "Strata - Columnar frame analytics engine",
		Long: `Strata is a high-performance columnar analytics engine for tabular data.
It provides vectorized series transforms (lag shift, percent change, quantiles)
over in-memory frames with parallel kernel dispatch.`,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to YAML configuration file (optional)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")
	root.PersistentFlags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of worker goroutines for parallel kernels")
	root.PersistentFlags().IntVar(&chunkSize, "chunk-size", 65536, "Number of rows each worker processes at a time")
	root.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for generated random columns")
	root.PersistentFlags().BoolVar(&enableTracing, "enable-tracing", false, "Enable trace export to stdout")

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Strata v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	// Demo command: the canonical shift / pct_change workload
	var demoRows int
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the shift and percent-change demo workload",
		Long: `Build a frame with a numeric column A (1..n) and a random column B,
then print the sum of the lag-1 shift of A followed by its percent-change series.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(configFile, logLevel, workers, chunkSize, seed, enableTracing)
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), eng, demoRows)
		},
	}
	demoCmd.Flags().IntVar(&demoRows, "rows", 10, "Number of rows in the generated frame")
	root.AddCommand(demoCmd)

	// Bench command: throughput at scale with process resource usage
	var benchRows int
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the engine at scale",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(configFile, logLevel, workers, chunkSize, seed, enableTracing)
			if err != nil {
				return err
			}
			return runBench(cmd.Context(), eng, benchRows)
		},
	}
	benchCmd.Flags().IntVar(&benchRows, "rows", 10_000_000, "Number of rows in the generated frame")
	root.AddCommand(benchCmd)

	// Export command: write the frame and derived columns to disk
	var exportRows int
	var exportOut, exportFormat, exportCompress string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a generated frame with derived columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(configFile, logLevel, workers, chunkSize, seed, enableTracing)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), eng, exportRows, exportOut, exportFormat, exportCompress)
		},
	}
	exportCmd.Flags().IntVar(&exportRows, "rows", 1000, "Number of rows in the generated frame")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "frame.arrow", "Output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "arrow", "Output format (arrow, json)")
	exportCmd.Flags().StringVar(&exportCompress, "compress", "none", "Compression algorithm (none, gzip, snappy, s2, zstd, lz4, deflate)")
	root.AddCommand(exportCmd)

	err := root.Execute()

	// Flush batched spans and buffered logs before the process exits
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := observability.Shutdown(shutdownCtx); shutdownErr != nil {
		fmt.Fprintln(os.Stderr, shutdownErr)
	}
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildEngine assembles an engine from the config file and CLI flags.
// Flags override file values.
func buildEngine(configFile, logLevel string, workers, chunkSize int, seed int64, enableTracing bool) (*engine.Engine, error) {
	baseCfg := config.NewBaseConfig("strata-cli")
	if configFile != "" {
		if err := config.Load(configFile, baseCfg); err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
		if err := baseCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if logLevel != "" {
		baseCfg.Observability.LogLevel = logLevel
	}
	if workers > 0 {
		baseCfg.Performance.Workers = workers
	}
	if chunkSize > 0 {
		baseCfg.Performance.ChunkSize = chunkSize
	}

	if err := logger.Init(logger.Config{
		Level:    baseCfg.Observability.LogLevel,
		Encoding: "json",
	}); err != nil {
		return nil, err
	}

	if enableTracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.SamplingRate = 1.0
		if err := observability.Init(tc); err != nil {
			return nil, err
		}
	}

	engCfg := engine.FromBaseConfig(baseCfg)
	engCfg.Seed = seed

	log := logger.With(zap.String("component", "strata-cli"))
	return engine.New(engCfg, log), nil
}

// runDemo prints the two canonical derived results for the frame
func runDemo(ctx context.Context, eng *engine.Engine, rows int) error {
	sum, err := eng.ShiftSum(ctx, rows)
	if err != nil {
		return err
	}

	fmt.Println("shift 1:")
	fmt.Println(strconv.FormatFloat(sum, 'g', -1, 64))

	pct, err := eng.PctChange(ctx, rows)
	if err != nil {
		return err
	}

	fmt.Println("pct_change:")
	fmt.Print(pct.String())

	return nil
}

// runBench times both operations at scale and reports process resource usage
func runBench(ctx context.Context, eng *engine.Engine, rows int) error {
	fmt.Printf("rows: %d\n", rows)

	shiftTracker := metrics.NewThroughputTracker("shift_sum")
	start := time.Now()
	sum, err := eng.ShiftSum(ctx, rows)
	if err != nil {
		return err
	}
	shiftTracker.Increment(int64(rows))
	fmt.Printf("shift_sum: %g in %s (%.0f rows/sec)\n",
		sum, time.Since(start), shiftTracker.GetAndReset())

	pctTracker := metrics.NewThroughputTracker("pct_change")
	start = time.Now()
	pct, err := eng.PctChange(ctx, rows)
	if err != nil {
		return err
	}
	pctTracker.Increment(int64(pct.Len()))
	fmt.Printf("pct_change: %d rows in %s (%.0f rows/sec)\n",
		pct.Len(), time.Since(start), pctTracker.GetAndReset())

	if monitor, err := performance.NewResourceMonitor(); err == nil {
		fmt.Println(monitor.Snapshot())
	}

	return nil
}

// runExport builds the frame, appends the pct-change column, and writes it
func runExport(ctx context.Context, eng *engine.Engine, rows int, out, format, compress string) error {
	ctx = context.WithValue(ctx, logger.OperationKey, "export")
	ctx = context.WithValue(ctx, logger.JobIDKey, fmt.Sprintf("export-%d", time.Now().UnixNano()))

	alg, err := compression.ParseAlgorithm(compress)
	if err != nil {
		return err
	}

	f, err := eng.BuildFrame(rows)
	if err != nil {
		return err
	}

	pct, err := eng.PctChange(ctx, rows)
	if err != nil {
		return err
	}
	if err := f.AddColumn(pct.WithName("A_pct_change")); err != nil {
		return err
	}

	var buf bytes.Buffer
	switch format {
	case "arrow":
		if err := arrowio.WriteFrame(&buf, f); err != nil {
			return err
		}
	case "json":
		if err := f.WriteJSON(&buf); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	file, err := os.Create(out) //nolint:gosec // G304: Output path comes from the --out flag
	if err != nil {
		return err
	}
	defer file.Close()

	comp, err := compression.NewCompressor(&compression.Config{
		Algorithm:  alg,
		Level:      compression.Default,
		BufferSize: 64 * 1024,
	})
	if err != nil {
		return err
	}
	if err := comp.CompressStream(file, &buf); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("export complete",
		zap.String("path", out),
		zap.String("format", format),
		zap.String("compress", compress),
		zap.Int("rows", f.NumRows()))

	fmt.Printf("wrote %d rows to %s (format=%s, compress=%s)\n", f.NumRows(), out, format, compress)
	return nil
}
