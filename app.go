package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"edachat/agent"
	"edachat/chart"
	"edachat/config"
	"edachat/dataset"
	"edachat/dbpool"
	"edachat/export"
	"edachat/i18n"
	"edachat/logger"
)

// App wires configuration, logging, the model gateway and the agent for
// the CLI commands.
type App struct {
	loader     *config.Loader
	cfg        config.Config
	storageDir string
	log        *logger.Logger
	tr         *i18n.Translator
	agent      *agent.Agent
	dbm        *dbpool.DBManager
	exporter   *export.PDFExportService
	registry   *ServiceRegistry
}

// appOptions come from the persistent flags.
type appOptions struct {
	configFile string
	storageDir string
	verbose    bool
	console    io.Writer
	// gateway replaces the configured model, for tests.
	gateway agent.Gateway
}

func globalOptions() appOptions {
	return appOptions{
		configFile: configFile,
		storageDir: storageDir,
		verbose:    verbose,
		console:    os.Stderr,
	}
}

// newApp loads the configuration and initializes the services. Close must
// be called when the returned error is nil.
func newApp(ctx context.Context, opts appOptions) (*App, error) {
	log := logger.NewLogger()
	if opts.verbose {
		log.SetConsole(opts.console)
		log.SetDebug(true)
	}

	loader := config.NewLoader(log.Func())
	if opts.storageDir != "" {
		loader.SetStorageDir(opts.storageDir)
	}
	cfg, err := loader.Load(opts.configFile)
	if err != nil {
		return nil, WrapError("App", "LoadConfig", err)
	}
	dir, err := loader.GetStorageDir()
	if err != nil {
		return nil, WrapError("App", "LoadConfig", err)
	}
	if cfg.DetailedLog {
		log.SetDebug(true)
	}

	a := &App{
		loader:     loader,
		cfg:        cfg,
		storageDir: dir,
		log:        log,
		tr:         i18n.New(i18n.ParseLanguage(cfg.Language)),
		dbm:        dbpool.New(dbpool.EngineSQLite, log.Func()),
	}
	a.exporter = export.NewPDFExportService(a.tr)
	a.registry = NewServiceRegistry(ctx, log.Func())

	if err := a.registry.Register(&logService{app: a}); err != nil {
		return nil, err
	}
	if err := a.registry.RegisterCritical(&agentService{app: a, gateway: opts.gateway}); err != nil {
		return nil, err
	}
	if err := a.registry.InitializeAll(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close shuts the services down.
func (a *App) Close() {
	a.registry.ShutdownAll()
}

func (a *App) ingestOptions() dataset.Options {
	return dataset.Options{ParseDates: a.cfg.ParseDates}
}

// logService opens the per-run log file.
type logService struct{ app *App }

func (s *logService) Name() string { return "Logger" }

func (s *logService) Initialize(context.Context) error {
	dir := s.app.cfg.LogDir
	if dir == "" {
		dir = filepath.Join(s.app.storageDir, "logs")
	}
	return s.app.log.Init(dir)
}

func (s *logService) Shutdown() error {
	s.app.log.Close()
	return nil
}

// agentService builds the gateway from the configured provider and the
// agent around it.
type agentService struct {
	app     *App
	gateway agent.Gateway
}

func (s *agentService) Name() string { return "Agent" }

func (s *agentService) Initialize(ctx context.Context) error {
	a := s.app
	gw := s.gateway
	if gw == nil {
		mg, err := agent.NewGatewayFromConfig(ctx, a.cfg, a.tr, a.log.Func())
		if err != nil {
			return err
		}
		gw = mg
	}

	c := a.cfg.Chart
	dispatcher := chart.NewDispatcher(
		chart.WithSize(c.Width, c.Height),
		chart.WithHeatmapMaxVars(c.HeatmapMaxVars),
		chart.WithClusterSeed(c.ClusterSeed),
		chart.WithClusterInit(c.ClusterInit),
		chart.WithTranslator(a.tr),
	)
	a.agent = agent.New(gw,
		agent.WithDispatcher(dispatcher),
		agent.WithTranslator(a.tr),
		agent.WithLogger(a.log.Zap()),
	)
	a.log.Logf("[APP] agent ready (provider=%s, model=%s)", a.cfg.LLMProvider, a.cfg.ModelName)
	return nil
}

func (s *agentService) Shutdown() error { return nil }

var errNoSource = errors.New("a dataset is required: use --file or --dsn")

// loadSource reads the dataset named by the flags.
func (a *App) loadSource(ctx context.Context, f sourceFlags) (*dataset.Dataset, error) {
	switch {
	case f.file != "":
		return dataset.Load(f.file, a.ingestOptions())
	case f.dsn != "":
		return a.loadQuery(ctx, f)
	}
	return nil, errNoSource
}

func (a *App) loadQuery(ctx context.Context, f sourceFlags) (*dataset.Dataset, error) {
	engine := a.dbm.DefaultEngine()
	if f.engine != "" {
		e, err := dbpool.ParseEngine(f.engine)
		if err != nil {
			return nil, err
		}
		engine = e
	}

	query := f.query
	if query == "" {
		if f.table == "" {
			return nil, errors.New("--query or --table is required with --dsn")
		}
		query = dbpool.NewDialect(engine).SelectAllQuery(f.table, f.limit)
	}

	db, err := a.dbm.Open(dbpool.OpenOptions{Engine: engine, Path: f.dsn, Mode: dbpool.ModeReadOnly})
	if err != nil {
		return nil, WrapOperationErrorf("open %s source", err, engine)
	}
	defer db.Close()

	opts := a.ingestOptions()
	opts.Name = f.table
	if opts.Name == "" {
		opts.Name = string(engine) + " query"
	}
	start := time.Now()
	ds, err := dataset.Query(ctx, db, query, opts)
	if err != nil {
		return nil, WrapOperationErrorf("query %s source", err, engine)
	}
	a.log.Logf("[APP] query returned %d rows in %v", ds.Rows(), time.Since(start))
	return ds, nil
}

// saveArtifacts writes each chart as <prefix>_<n>_<tool>.png into dir and
// returns the paths.
func saveArtifacts(dir, prefix string, arts []chart.Artifact) ([]string, error) {
	if len(arts) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(arts))
	for i, art := range arts {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d_%s.png", prefix, i+1, art.Tool))
		if err := os.WriteFile(path, art.PNG, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
