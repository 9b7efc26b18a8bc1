package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Atelier_Go/internal/database/postgres"
)

// Repositories holds the PostgreSQL implementations of the catalog and ledger contracts
type Repositories struct {
	Catalog *postgres.CatalogRepository
	Ledger  *postgres.LedgerRepository
}

// InitializeRepositories creates all repository implementations on one pool
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Catalog: postgres.NewCatalogRepository(dbPool),
		Ledger:  postgres.NewLedgerRepository(dbPool),
	}
}
