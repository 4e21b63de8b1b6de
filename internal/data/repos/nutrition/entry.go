package nutrition

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
	"github.com/yungbote/nutrilog-backend/internal/pkg/dbctx"
	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

type EntryRepo interface {
	Create(dbc dbctx.Context, entry *domain.LoggedEntry) (*domain.LoggedEntry, error)
	GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*domain.LoggedEntry, error)
	ApplyPatch(dbc dbctx.Context, entry *domain.LoggedEntry, patch domain.EntryPatch) (*domain.LoggedEntry, error)
	DeleteByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (int64, error)
	ListByUserDateRange(dbc dbctx.Context, userID uuid.UUID, r domain.DateRange) ([]*domain.LoggedEntry, error)
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	return &entryRepo{db: db, log: baseLog.With("repo", "EntryRepo")}
}

func (r *entryRepo) Create(dbc dbctx.Context, entry *domain.LoggedEntry) (*domain.LoggedEntry, error) {
	if err := dbc.DB(r.db).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetByIDForUser returns gorm.ErrRecordNotFound when the entry is missing or
// owned by someone else.
func (r *entryRepo) GetByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (*domain.LoggedEntry, error) {
	var out domain.LoggedEntry
	if err := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ApplyPatch writes only the enumerated columns the patch touches.
func (r *entryRepo) ApplyPatch(dbc dbctx.Context, entry *domain.LoggedEntry, patch domain.EntryPatch) (*domain.LoggedEntry, error) {
	columns := make([]string, 0, 12)
	if patch.Amount != nil {
		entry.Amount = *patch.Amount
		columns = append(columns, "amount")
	}
	if patch.Unit != nil {
		entry.Unit = *patch.Unit
		columns = append(columns, "unit")
	}
	if patch.MealType != nil {
		entry.MealType = *patch.MealType
		columns = append(columns, "meal_type")
	}
	if patch.LogTime != nil {
		entry.LogTime = patch.LogTime
		columns = append(columns, "log_time")
	}
	if patch.Nutrients != nil {
		entry.Nutrients = *patch.Nutrients
		columns = append(columns, domain.Fields...)
	}
	if len(columns) == 0 {
		return entry, nil
	}
	columns = append(columns, "updated_at")

	res := dbc.DB(r.db).
		Model(entry).
		Where("user_id = ?", entry.UserID).
		Select(columns).
		Updates(entry)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (r *entryRepo) DeleteByIDForUser(dbc dbctx.Context, id, userID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.LoggedEntry{})
	return res.RowsAffected, res.Error
}

// ListByUserDateRange returns entries ordered by date, time of day, then
// insertion.
func (r *entryRepo) ListByUserDateRange(dbc dbctx.Context, userID uuid.UUID, rng domain.DateRange) ([]*domain.LoggedEntry, error) {
	results := []*domain.LoggedEntry{}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, rng.From, rng.To).
		Order("log_date ASC").
		Order("log_time ASC").
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
