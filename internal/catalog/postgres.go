package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/magefree/commander-engine-go/internal/game/mana"
)

// PostgresStore loads the full card catalog from Postgres at startup and
// serves lookups from memory. Definitions are immutable, so there is no
// refresh path; restart the process to pick up catalog changes.
type PostgresStore struct {
	*MemoryStore
	pool *pgxpool.Pool
}

const loadDefinitionsQuery = `
SELECT id, name, kind, mana_cost, power, toughness, keywords, produces,
       effect_kind, effect_amount, effect_power, effect_toughness, rules_text
FROM card_definitions
ORDER BY id`

// NewPostgresStore connects to the database, loads every card definition and
// returns a store backed by the loaded snapshot.
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}

	rows, err := pool.Query(ctx, loadDefinitionsQuery)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load card definitions: %w", err)
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var (
			def      Definition
			keywords []string
			produces []string
		)
		err := rows.Scan(
			&def.ID, &def.Name, &def.Kind, &def.CostString,
			&def.Power, &def.Toughness, &keywords, &produces,
			&def.Effect.Kind, &def.Effect.Amount,
			&def.Effect.Power, &def.Effect.Toughness, &def.Text,
		)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("scan card definition: %w", err)
		}
		def.Keywords = keywords
		for _, p := range produces {
			def.Produces = append(def.Produces, mana.Type(p))
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("iterate card definitions: %w", err)
	}

	store, err := NewMemoryStore(defs)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("card catalog loaded",
		zap.Int("definitions", len(defs)),
	)

	return &PostgresStore{MemoryStore: store, pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
