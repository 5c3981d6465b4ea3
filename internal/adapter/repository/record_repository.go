package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/omerharel/minuteflow/errors"
	"github.com/omerharel/minuteflow/internal/domain/entities"
	repo "github.com/omerharel/minuteflow/internal/domain/repositories"
)

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a record repository backed by GORM
func NewRecordRepository(db *gorm.DB) repo.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) FindMeetingByRecordingID(ctx context.Context, recordingID string) (*entities.MeetingRecord, error) {
	var m entities.MeetingRecord
	err := r.db.WithContext(ctx).Where("recording_id = ?", recordingID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapStoreError("meetings", err)
	}
	return &m, nil
}

// CreateMeeting inserts the parent row. ON CONFLICT DO NOTHING on the
// recording_id unique index backstops the caller's read-before-write check
// under concurrent runs; zero rows affected means another run won.
func (r *recordRepository) CreateMeeting(ctx context.Context, m *entities.MeetingRecord) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recording_id"}},
			DoNothing: true,
		}).
		Create(m)
	if result.Error != nil {
		return mapStoreError("meetings", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrDuplicate(m.RecordingID)
	}
	return nil
}

func (r *recordRepository) CreateActionItem(ctx context.Context, item *entities.ActionItemRecord) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return mapStoreError("action_items", err)
	}
	return nil
}

// mapStoreError classifies driver errors into the application taxonomy.
// A schema mismatch must name the missing column so the operator knows
// which field to reconcile.
func mapStoreError(table string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "password authentication failed"),
		strings.Contains(msg, "permission denied"):
		return apperrors.ErrAuthFailed("record store", err)
	case strings.Contains(msg, "does not exist") && strings.Contains(msg, "column"):
		return apperrors.ErrValidation(fmt.Errorf("table %s: %w", table, err))
	case strings.Contains(msg, "does not exist") && strings.Contains(msg, "relation"):
		return apperrors.ErrValidation(fmt.Errorf("table %s missing: %w", table, err))
	default:
		return apperrors.ErrTransport("record store", err)
	}
}
