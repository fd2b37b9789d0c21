package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/keibadb/config"
	"github.com/padraicbc/keibadb/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// Models lists every persisted model in creation order.
var Models = []any{
	(*models.User)(nil),
	(*models.Race)(nil),
	(*models.Horse)(nil),
	(*models.RaceResult)(nil),
	(*models.RacePayout)(nil),
	(*models.HorseRelation)(nil),
	(*models.Jockey)(nil),
	(*models.Trainer)(nil),
	(*models.Owner)(nil),
	(*models.Breeder)(nil),
}

// CreateTables creates all tables that do not exist yet. Unique constraints
// come from the model tags.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range Models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}
	return nil
}
