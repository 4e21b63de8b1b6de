package logstore

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/yungbote/nutrilog-backend/internal/domain/nutrition"
)

// MapError maps relational failures into nutrition error codes.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Wrap(domain.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := strings.TrimSpace(pgErr.Code)
		switch {
		case code == "23505":
			return domain.Wrap(domain.CodeValidation, op, err) // unique_violation
		case code == "23502", code == "23514", code == "22001":
			return domain.Wrap(domain.CodeValidation, op, err) // not_null/check/string_data_right_truncation
		case len(code) >= 2:
			switch code[:2] {
			case "08", "40", "53", "57":
				// connection/transaction rollback/resources/operator intervention
				return domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
			}
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return domain.Wrap(domain.CodeValidation, op, err)
	default:
		return domain.Wrap(domain.CodeUpstreamUnavailable, op, err)
	}
}
