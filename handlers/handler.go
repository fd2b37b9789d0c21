package handlers

import (
	"github.com/uptrace/bun"

	"github.com/padraicbc/keibadb/config"
	"github.com/padraicbc/keibadb/storage"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db     *bun.DB
	store  *storage.DB
	cfg    *config.Config
	JWTKey []byte
}

// New creates a Handler over the given database connection. The JWT signing
// key and the admin list come from cfg.
func New(db *bun.DB, cfg *config.Config) *Handler {
	return &Handler{db: db, store: storage.New(db), cfg: cfg, JWTKey: cfg.JWTKey()}
}
