// Package postgres holds the relational persistence layer.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every PostgreSQL-backed repository built over a single
// connection pool.
type Repositories struct {
	Identities *IdentityRepository
}

// NewRepositories wires all repositories over the shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Identities: NewIdentityRepository(pool),
	}
}
