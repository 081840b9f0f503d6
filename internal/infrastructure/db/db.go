// Package db selects and opens the repository backend named by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/infrastructure/db/file"
	"github.com/adaste/loan-system/internal/infrastructure/db/memory"
	"github.com/adaste/loan-system/internal/infrastructure/db/mongo"
	"github.com/adaste/loan-system/internal/pkg/config"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Store bundles the repositories of one backend.
type Store struct {
	Users ports.UserRepository
	Loans ports.LoanRepository
	// Checks feeds the readiness probe, keyed by dependency name.
	Checks map[string]Check
	close  func(ctx context.Context) error
}

// Close releases backend resources. Safe to call on every driver.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open builds the Store for cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		log.Warn().Msg("using in-memory storage, data will not survive a restart")
		return &Store{
			Users:  memory.NewUserRepository(),
			Loans:  memory.NewLoanRepository(),
			Checks: map[string]Check{},
		}, nil

	case "file":
		users, err := file.NewUserRepository(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		loans, err := file.NewLoanRepository(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("data_dir", cfg.Storage.DataDir).Msg("using file storage")
		return &Store{
			Users: users,
			Loans: loans,
			Checks: map[string]Check{
				"storage": func(ctx context.Context) error {
					_, err := loans.List(ctx, domain.LoanFilter{})
					return err
				},
			},
		}, nil

	case "mongo":
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(database)
		loans := mongo.NewLoanRepository(database)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure user indexes: %w", err)
		}
		if err := loans.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure loan indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &Store{
			Users: users,
			Loans: loans,
			Checks: map[string]Check{
				"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			},
			close: client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
