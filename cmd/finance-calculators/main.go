package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/finance-calculators/internal/cache"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/costmodel"
	"github.com/iwvelando/finance-calculators/internal/server"
	"github.com/iwvelando/finance-calculators/internal/strategy"
	"github.com/iwvelando/finance-calculators/internal/tracing"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/output"
	"github.com/iwvelando/finance-calculators/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 30 * time.Second

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// loadConfiguration reads configLocation. The default file is optional; a
// missing explicitly named file is an error.
func loadConfiguration(configLocation string, explicit bool) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(configLocation)
	if errors.Is(err, config.ErrConfigNotFound) && !explicit {
		return config.LoadConfiguration("")
	}
	return conf, err
}

// loadEnvFile loads KEY=value pairs from path into the environment. A missing
// file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// calculate runs the configured tool and collects advisory input warnings.
func calculate(logger *zap.Logger, conf *config.Configuration) (interface{}, []string, error) {
	v := validation.New()

	switch conf.Tool {
	case constants.ToolLoan:
		warnings, err := v.Warnings(conf.Loan)
		if err != nil {
			return nil, nil, err
		}
		if _, err := loans.ParseStrategyKind(string(conf.Loan.Strategy)); err != nil {
			warnings = append(warnings, fmt.Sprintf("%v, using %s", err, loans.ReducingBalance))
		}
		return loans.Calculate(conf.Loan), warnings, nil
	case constants.ToolEMI:
		warnings, err := v.Warnings(conf.EMI)
		if err != nil {
			return nil, nil, err
		}
		return costmodel.NewAnalyzer(logger).Run(conf.EMI), warnings, nil
	case constants.ToolCar:
		warnings, err := v.Warnings(conf.Car)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, validation.LumpsumWarnings(conf.Car.AssetPrice, conf.Car.TotalCash, conf.Car.InvestableLumpsum)...)
		return strategy.NewComparator(logger).Compare(conf.Car), warnings, nil
	default:
		return nil, nil, validation.ValidateTool(conf.Tool)
	}
}

// serve runs the HTTP API until ctx is cancelled.
func serve(ctx context.Context, logger *zap.Logger, conf *config.Configuration) error {
	shutdownTracing, err := tracing.Setup(ctx, conf.Tracing, conf.Server.Version)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("failed to flush traces", zap.String("op", "main.serve"), zap.Error(err))
		}
	}()

	results, err := cache.New(ctx, conf.Cache, logger)
	if err != nil {
		return err
	}
	if closer, ok := results.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	srv := &http.Server{
		Addr:              conf.Server.Address,
		Handler:           server.NewHandler(logger, conf.Server, results),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
			zap.String("version", conf.Server.Version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down API server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shut down: %w", err)
	}
	return nil
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	envFile := flag.String("env-file", constants.DefaultEnvFile, "optional dotenv file loaded before the configuration")
	toolFlag := flag.String("tool", "", "calculator override: loan, emi, car")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serveFlag := flag.Bool("serve", false, "serve the JSON API instead of running one calculation")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	flag.Parse()

	explicitConfig := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicitConfig = true
		}
	})

	if err := loadEnvFile(*envFile); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load environment file\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}

	conf, err := loadConfiguration(*configLocation, explicitConfig)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": %q}\n", *configLocation, err.Error())
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if conf.Server.Version == "" {
		conf.Server.Version = version
	}

	// CLI overrides take precedence over the configuration file
	if *toolFlag != "" {
		conf.Tool = *toolFlag
	}
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(), zap.String("op", "main"))
	}
	if err := validation.ValidateTool(conf.Tool); err != nil {
		logger.Fatal(err.Error(), zap.String("op", "main"))
	}

	if *printConfig {
		out, err := conf.YAML()
		if err != nil {
			logger.Fatal("failed to render configuration", zap.String("op", "main"), zap.Error(err))
		}
		_, _ = os.Stdout.Write(out)
		return
	}

	if *serveFlag {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := serve(ctx, logger, conf); err != nil {
			logger.Fatal("API server stopped", zap.String("op", "main"), zap.Error(err))
		}
		return
	}

	result, warnings, err := calculate(logger, conf)
	if err != nil {
		logger.Fatal("failed to calculate", zap.String("op", "main"), zap.String("tool", conf.Tool), zap.Error(err))
	}

	for _, warning := range warnings {
		logger.Warn("Input warning: "+warning, zap.String("op", "main"))
	}
	if outputFormat == constants.OutputFormatPretty {
		output.Warnings(os.Stdout, warnings)
	}

	if err := output.Write(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write output", zap.String("op", "main"), zap.Error(err))
	}
}
