// File: internal/repository/preference/gorm_preference_repository.go
package preference

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// Preference is one persisted key-value flag.
type Preference struct {
	Key   string `gorm:"primarykey;size:64"`
	Value string `gorm:"not null;size:64"`
}

type gormPreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &gormPreferenceRepository{db: db}
}

func (r *gormPreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", errors.New("invalid preference key")
	}

	var pref Preference
	err := r.db.WithContext(ctx).First(&pref, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrPreferenceNotFound
		}
		log.Printf("[PreferenceRepository] Database error reading %q: %v", key, err)
		return "", errors.New("database error reading preference")
	}
	return pref.Value, nil
}

func (r *gormPreferenceRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("invalid preference key")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&Preference{Key: key, Value: value}).Error
	if err != nil {
		log.Printf("[PreferenceRepository] Database error writing %q: %v", key, err)
		return errors.New("database error writing preference")
	}
	return nil
}
