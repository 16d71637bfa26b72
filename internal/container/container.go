// Package container provides dependency injection for the finledger
// application. It centralizes the creation and wiring of the ledger
// components, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/finledger/internal/category"
	"fjacquet/finledger/internal/closure"
	"fjacquet/finledger/internal/config"
	"fjacquet/finledger/internal/importer"
	"fjacquet/finledger/internal/logging"
	"fjacquet/finledger/internal/posting"
	"fjacquet/finledger/internal/report"
	"fjacquet/finledger/internal/rules"
	"fjacquet/finledger/internal/store"
	"fjacquet/finledger/internal/transactions"
)

// Container holds all application dependencies and provides methods to
// access them.
//
// Container is immutable after creation. It owns the database handle, which
// Close releases.
type Container struct {
	logger logging.Logger
	config *config.Config
	store  *store.Store
	guard  *closure.Guard

	importer     *importer.Importer
	rules        *rules.Engine
	postings     *posting.Generator
	reports      *report.Service
	renderer     *report.Renderer
	categories   *category.Service
	transactions *transactions.Service
	closures     *closure.Service
}

// NewContainer opens the ledger database named by cfg, applying pending
// migrations, and wires every component to it.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := cfg.NewLogger()
	return newContainer(ctx, cfg, logger)
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return newContainer(ctx, cfg, logging.OrDiscard(logger))
}

func newContainer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	s, err := store.Open(ctx, cfg.Database.Path, cfg.Database.BusyTimeoutMS, logger)
	if err != nil {
		return nil, err
	}

	guard := closure.NewGuard(cfg.Closures.Enforce)

	c := &Container{
		logger:       logger,
		config:       cfg,
		store:        s,
		guard:        guard,
		importer:     importer.NewImporter(s, logger),
		rules:        rules.NewEngine(s, guard, logger),
		postings:     posting.NewGenerator(s, guard, logger),
		reports:      report.NewService(s, logger),
		renderer:     report.NewRenderer(cfg.Delimiter()),
		categories:   category.NewService(s, logger),
		transactions: transactions.NewService(s, guard, logger),
		closures:     closure.NewService(s, logger),
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldDatabase, s.Path()),
		logging.F("closures_enforced", cfg.Closures.Enforce))
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the ledger store.
func (c *Container) GetStore() *store.Store {
	return c.store
}

// GetGuard returns the period closure guard shared by the mutating
// components.
func (c *Container) GetGuard() *closure.Guard {
	return c.guard
}

// GetImporter returns the statement importer.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// GetRules returns the rules engine.
func (c *Container) GetRules() *rules.Engine {
	return c.rules
}

// GetPostings returns the posting generator.
func (c *Container) GetPostings() *posting.Generator {
	return c.postings
}

// GetReports returns the reporting service.
func (c *Container) GetReports() *report.Service {
	return c.reports
}

// GetRenderer returns the report renderer configured with the CSV delimiter.
func (c *Container) GetRenderer() *report.Renderer {
	return c.renderer
}

// GetCategories returns the category service.
func (c *Container) GetCategories() *category.Service {
	return c.categories
}

// GetTransactions returns the transaction service.
func (c *Container) GetTransactions() *transactions.Service {
	return c.transactions
}

// GetClosures returns the period closure service.
func (c *Container) GetClosures() *closure.Service {
	return c.closures
}

// Close releases the database handle.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close ledger database: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
