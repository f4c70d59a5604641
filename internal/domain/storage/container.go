package storage

import (
	"context"
	"fmt"

	"rbar/internal/domain/games"
	"rbar/internal/domain/matchreview"
	"rbar/internal/domain/teams"
	"rbar/internal/domain/users"
	venuereviews "rbar/internal/domain/venuereview"
	"rbar/internal/domain/venues"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool          *pgxpool.Pool // required by WithTx
	Users         users.Store
	Venues        venues.Store
	VenuesReviews venuereviews.Store
	Teams         teams.Store
	Games         games.Store
	MatchReviews  matchreview.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:          db,
		Users:         users.NewRepository(db),
		Venues:        venues.NewRepository(db),
		VenuesReviews: venuereviews.NewRepository(db),
		Teams:         teams.NewRepository(db),
		Games:         games.NewRepository(db),
		MatchReviews:  matchreview.NewRepository(db),
	}
}

// Ping reports whether the database answers.
func (c *Container) Ping(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}
	return c.pool.Ping(ctx)
}

// Tx is a tx-scoped set of repos used by the seeder so a venue and its team
// links land together.
type Tx struct {
	Venues venues.Store
	Teams  teams.Store
}

// WithTx runs fn atomically.
func (c *Container) WithTx(ctx context.Context, fn func(s *Tx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	s := &Tx{
		Venues: venues.NewRepository(tx),
		Teams:  teams.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
