package repository

import (
	"kino-tickets/pkg/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	Ticket    TicketRepository
	Selection SelectionRepository
	Catalog   CatalogCache
}

// NewRepository wires the stores. Without a redis client the selection store
// and catalog cache fall back to process memory.
func NewRepository(db database.PgxIface, rdb *redis.Client, log *zap.Logger) *Repository {
	repo := &Repository{
		Ticket: NewTicketRepository(db, log),
	}

	if rdb != nil {
		repo.Selection = NewRedisSelectionRepository(rdb, log)
		repo.Catalog = NewRedisCatalogCache(rdb, log)
	} else {
		repo.Selection = NewMemorySelectionRepository()
		repo.Catalog = NewMemoryCatalogCache()
	}

	return repo
}
