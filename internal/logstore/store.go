package logstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	repos "github.com/yungbote/nutrilog-backend/internal/data/repos/nutrition"
	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/pkg/ctxutil"
	"github.com/yungbote/nutrilog-backend/internal/pkg/dbctx"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

const DefaultOpTimeout = 5 * time.Second

// Store is the relational contract consumed by the resolver, the aggregation
// engine and the service layer. Every error it returns carries a nutrition
// error code.
type Store interface {
	InsertEntry(ctx context.Context, entry *domain.LoggedEntry) (*domain.LoggedEntry, error)
	UpdateEntry(ctx context.Context, id, userID uuid.UUID, patch domain.EntryPatch) (*domain.LoggedEntry, error)
	GetEntry(ctx context.Context, id, userID uuid.UUID) (*domain.LoggedEntry, error)
	// DeleteEntry returns the log date of the removed entry.
	DeleteEntry(ctx context.Context, id, userID uuid.UUID) (string, error)
	FetchEntries(ctx context.Context, userID uuid.UUID, rng domain.DateRange) ([]*domain.LoggedEntry, error)
	FetchCustomFood(ctx context.Context, id, userID uuid.UUID) (*domain.CustomFood, error)
	FetchCatalogNutrients(ctx context.Context, foodID int64) ([]domain.CatalogNutrient, error)
	// FetchUserTargets returns nil, nil when the user has no profile.
	FetchUserTargets(ctx context.Context, userID uuid.UUID) (*domain.UserNutritionProfile, error)
	Ping(ctx context.Context) error
}

type Config struct {
	OpTimeout time.Duration
}

type gormStore struct {
	db       *gorm.DB
	log      *logger.Logger
	timeout  time.Duration
	entries  repos.EntryRepo
	foods    repos.CustomFoodRepo
	catalog  repos.CatalogRepo
	profiles repos.ProfileRepo
}

func New(db *gorm.DB, baseLog *logger.Logger, cfg Config) Store {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	return &gormStore{
		db:       db,
		log:      baseLog.With("component", "LogStore"),
		timeout:  cfg.OpTimeout,
		entries:  repos.NewEntryRepo(db, baseLog),
		foods:    repos.NewCustomFoodRepo(db, baseLog),
		catalog:  repos.NewCatalogRepo(db, baseLog),
		profiles: repos.NewProfileRepo(db, baseLog),
	}
}

func (s *gormStore) bounded(ctx context.Context) (dbctx.Context, context.CancelFunc) {
	cctx, cancel := ctxutil.Bounded(ctxutil.Default(ctx), s.timeout)
	return dbctx.Context{Ctx: cctx}, cancel
}

func (s *gormStore) InsertEntry(ctx context.Context, entry *domain.LoggedEntry) (*domain.LoggedEntry, error) {
	const op = "logstore.InsertEntry"
	if entry == nil {
		return nil, domain.Validation(op, "entry is required")
	}
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	out, err := s.entries.Create(dbc, entry)
	if err != nil {
		s.log.Warn("insert entry failed", "user_id", entry.UserID, "error", err)
		return nil, MapError(op, err)
	}
	return out, nil
}

// UpdateEntry loads and patches the entry in one transaction so a concurrent
// delete surfaces as NotFound instead of a silent no-op.
func (s *gormStore) UpdateEntry(ctx context.Context, id, userID uuid.UUID, patch domain.EntryPatch) (*domain.LoggedEntry, error) {
	const op = "logstore.UpdateEntry"
	dbc, cancel := s.bounded(ctx)
	defer cancel()

	var out *domain.LoggedEntry
	err := s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		current, err := s.entries.GetByIDForUser(txc, id, userID)
		if err != nil {
			return err
		}
		out, err = s.entries.ApplyPatch(txc, current, patch)
		return err
	})
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (s *gormStore) GetEntry(ctx context.Context, id, userID uuid.UUID) (*domain.LoggedEntry, error) {
	const op = "logstore.GetEntry"
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	out, err := s.entries.GetByIDForUser(dbc, id, userID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (s *gormStore) DeleteEntry(ctx context.Context, id, userID uuid.UUID) (string, error) {
	const op = "logstore.DeleteEntry"
	dbc, cancel := s.bounded(ctx)
	defer cancel()

	var logDate string
	err := s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		current, err := s.entries.GetByIDForUser(txc, id, userID)
		if err != nil {
			return err
		}
		n, err := s.entries.DeleteByIDForUser(txc, id, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		logDate = current.LogDate
		return nil
	})
	if err != nil {
		return "", MapError(op, err)
	}
	return logDate, nil
}

func (s *gormStore) FetchEntries(ctx context.Context, userID uuid.UUID, rng domain.DateRange) ([]*domain.LoggedEntry, error) {
	const op = "logstore.FetchEntries"
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	out, err := s.entries.ListByUserDateRange(dbc, userID, rng)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (s *gormStore) FetchCustomFood(ctx context.Context, id, userID uuid.UUID) (*domain.CustomFood, error) {
	const op = "logstore.FetchCustomFood"
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	out, err := s.foods.GetByIDForUser(dbc, id, userID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

// FetchCatalogNutrients returns NotFound when the catalog food does not exist.
// A food with no nutrient rows yields an empty slice.
func (s *gormStore) FetchCatalogNutrients(ctx context.Context, foodID int64) ([]domain.CatalogNutrient, error) {
	const op = "logstore.FetchCatalogNutrients"
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	if _, err := s.catalog.GetFood(dbc, foodID); err != nil {
		return nil, MapError(op, err)
	}
	rows, err := s.catalog.ListNutrients(dbc, foodID)
	if err != nil {
		return nil, MapError(op, err)
	}
	out := make([]domain.CatalogNutrient, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *gormStore) FetchUserTargets(ctx context.Context, userID uuid.UUID) (*domain.UserNutritionProfile, error) {
	const op = "logstore.FetchUserTargets"
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	out, err := s.profiles.GetByUserID(dbc, userID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return out, nil
}

func (s *gormStore) Ping(ctx context.Context) error {
	dbc, cancel := s.bounded(ctx)
	defer cancel()
	sqlDB, err := s.db.DB()
	if err != nil {
		return MapError("logstore.Ping", err)
	}
	return MapError("logstore.Ping", sqlDB.PingContext(dbc.Ctx))
}
