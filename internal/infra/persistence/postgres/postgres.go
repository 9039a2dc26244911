// Package postgres contains the concrete implementation of the persistence
// layer using GORM and PostgreSQL. All repositories share one Gateway bound
// to either the production or the test table namespace for the whole run.
package postgres

import (
	"fmt"
	"log/slog"

	"intake/config"
	"intake/internal/errors"

	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the PostgreSQL client.
func New(params Params) (*gorm.DB, error) {
	pg := params.Config.Postgres
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.UserName, pg.Password, pg.DBName, pg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// The backing store offers no multi-statement transactions to the
		// pipelines; idempotency keys, not atomicity, make runs resumable.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config.Env.Debug),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PostgreSQL connection")
	}

	return db, nil
}

// Gateway is the configuration-scoped storage handle shared by every
// repository: one database connection, one namespace decision, one batch
// size per run.
type Gateway struct {
	db        *gorm.DB
	ns        Namespace
	batchSize int
	logger    *slog.Logger
}

// NewGateway binds a Gateway to the namespace selected by configuration.
func NewGateway(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *Gateway {
	return &Gateway{
		db:        db,
		ns:        NewNamespace(cfg.Import.Testing),
		batchSize: cfg.Import.BatchSize,
		logger:    logger,
	}
}
