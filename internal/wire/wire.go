// Package wire provides dependency injection for the WDS application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"os"
	"sync"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/wds/internal/adapters/cli"
	"github.com/example/wds/internal/adapters/sqlite"
	"github.com/example/wds/internal/app"
	"github.com/example/wds/internal/config"
	"github.com/example/wds/internal/db"
	"github.com/example/wds/internal/logging"
	"github.com/example/wds/internal/ports/primary"
)

var (
	cfg      *config.Config
	logger   *logrus.Logger
	logFile  *os.File
	database *sqlx.DB
	registry *prometheus.Registry

	applyService    primary.ApplyService
	stagingService  primary.StagingService
	batchService    primary.BatchService
	registryService primary.RegistryService
	auditService    primary.AuditService

	once    sync.Once
	initErr error
)

// Init loads configuration and builds every service. It is safe to call more
// than once; the first error is returned on every call.
func Init() error {
	once.Do(initServices)
	return initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg, initErr = config.Load(config.DefaultEnvFiles)
	if initErr != nil {
		return
	}

	logger, logFile, initErr = logging.FromConfig(cfg)
	if initErr != nil {
		initErr = errors.Wrap(initErr, "failed to open log file")
		return
	}

	database, initErr = db.Open(cfg.DBPath)
	if initErr != nil {
		return
	}

	registry = prometheus.NewRegistry()
	metrics := app.NewApplyMetrics(registry)

	// Repository adapters (secondary ports) share the injected DB
	tx := sqlite.NewTransactor(database)
	dimRepo := sqlite.NewDimensionRepository(database)
	personRepo := sqlite.NewPersonRepository(database)
	stageRepo := sqlite.NewStagingRepository(database)
	batchRepo := sqlite.NewBatchRepository(database)
	auditRepo := sqlite.NewAuditRepository(database)
	aliasRepo := sqlite.NewAliasRepository(database)

	// Services (primary ports implementation)
	applyService = app.NewApplyService(tx, dimRepo, personRepo, stageRepo, batchRepo, auditRepo, logger, metrics)
	stagingService = app.NewStagingService(tx, stageRepo, batchRepo, logger)
	batchService = app.NewBatchService(tx, batchRepo, stageRepo, auditRepo, logger)
	registryService = app.NewRegistryService(dimRepo, aliasRepo)
	auditService = app.NewAuditService(auditRepo, cfg.AuditLimit)
}

// Config returns the loaded configuration. Init must have succeeded.
func Config() *config.Config {
	return cfg
}

// Logger returns the application logger. Init must have succeeded.
func Logger() *logrus.Logger {
	return logger
}

// DB returns the shared database handle. Init must have succeeded.
func DB() *sqlx.DB {
	return database
}

// FlushMetrics writes the metrics registry to the configured textfile.
// It does nothing when no textfile is configured.
func FlushMetrics() error {
	if cfg == nil || cfg.MetricsTextfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, registry); err != nil {
		return errors.Wrap(err, "failed to write metrics textfile")
	}
	return nil
}

// Close releases the database and log file.
func Close() error {
	var err error
	if database != nil {
		err = database.Close()
	}
	if logFile != nil {
		if cerr := logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ApplyAdapter returns a new ApplyAdapter writing to stdout.
func ApplyAdapter() *cliadapter.ApplyAdapter {
	return ApplyAdapterWithOutput(os.Stdout)
}

// ApplyAdapterWithOutput returns a new ApplyAdapter writing to the given output.
func ApplyAdapterWithOutput(out io.Writer) *cliadapter.ApplyAdapter {
	return cliadapter.NewApplyAdapter(applyService, out)
}

// StagingAdapter returns a new StagingAdapter writing to stdout.
func StagingAdapter() *cliadapter.StagingAdapter {
	return cliadapter.NewStagingAdapter(stagingService, os.Stdout)
}

// BatchAdapter returns a new BatchAdapter writing to stdout.
func BatchAdapter() *cliadapter.BatchAdapter {
	return cliadapter.NewBatchAdapter(batchService, os.Stdout)
}

// RegistryAdapter returns a new RegistryAdapter writing to stdout.
func RegistryAdapter() *cliadapter.RegistryAdapter {
	return cliadapter.NewRegistryAdapter(registryService, os.Stdout)
}

// AuditAdapter returns a new AuditAdapter writing to stdout.
func AuditAdapter() *cliadapter.AuditAdapter {
	return cliadapter.NewAuditAdapter(auditService, os.Stdout)
}
