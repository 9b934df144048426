package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"samplemeta/adapters/excel"
	"samplemeta/adapters/postgres"
	"samplemeta/adapters/roster"
	"samplemeta/adapters/spelling"
	"samplemeta/app"
	"samplemeta/domain/sheet"
	"samplemeta/internal/config"
	"samplemeta/internal/session"
	"samplemeta/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Import pipeline
	Template  *sheet.Template
	Suggester ports.TypoSuggester
	Importer  *excel.Importer
	Writer    *excel.TemplateWriter
	Roster    *roster.Reader
	Scratch   *session.ScratchStore

	// Repositories (data access layer)
	ExperimentRepo ports.ExperimentRepository
	SubjectRepo    ports.SubjectRepository

	// Application services
	Experiments *app.ExperimentService
	Templates   *app.TemplateService
	Imports     *app.ImportService
	Rosters     *app.RosterService

	stopJanitor context.CancelFunc
}

// New creates a container with the components that need no database: the
// sheet layout, the typo suggester, the workbook and roster readers.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	tpl, err := sheet.LoadTemplateFile(cfg.Import.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheet layout: %w", err)
	}
	suggester, err := spelling.NewFromConfig(cfg.Spelling)
	if err != nil {
		return nil, fmt.Errorf("failed to create typo suggester: %w", err)
	}

	c := &Container{
		Config:    cfg,
		Template:  tpl,
		Suggester: suggester,
		Importer:  excel.NewImporter(tpl, suggester),
		Writer:    excel.NewTemplateWriter(tpl),
		Roster:    roster.NewReader(cfg.Import.RosterGroupColumn),
		Scratch:   session.NewScratchStore(cfg.Import.ScratchTTL),
	}
	log.Printf("[Container] sheet layout %q with %d catalog labels", tpl.SheetName, len(tpl.CatalogLabels()))
	return c, nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.initRepositories()
	c.initServices()

	log.Printf("Container initialized successfully with database connection")
	return nil
}

// initRepositories initializes data access repositories
func (c *Container) initRepositories() {
	c.ExperimentRepo = postgres.NewExperimentRepository(c.DB)
	c.SubjectRepo = postgres.NewSubjectRepository(c.DB)
}

func (c *Container) initServices() {
	c.Experiments = app.NewExperimentService(c.ExperimentRepo)
	c.Templates = app.NewTemplateService(c.ExperimentRepo, c.Writer)
	c.Imports = app.NewImportService(c.ExperimentRepo, c.Importer, c.Scratch)
	c.Rosters = app.NewRosterService(c.ExperimentRepo, c.SubjectRepo, c.Roster, c.Scratch)
}

// StartJanitor evicts idle scratch sessions until Shutdown
func (c *Container) StartJanitor(ctx context.Context) {
	ctx, c.stopJanitor = context.WithCancel(ctx)
	interval := c.Config.Import.ScratchTTL / 4
	if interval <= 0 {
		interval = time.Minute
	}
	c.Scratch.StartJanitor(ctx, interval)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.stopJanitor != nil {
		c.stopJanitor()
	}

	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
