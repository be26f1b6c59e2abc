package repository

import (
	"context"

	"accessdash/internal/database"
	"accessdash/internal/models"

	"gorm.io/gorm"
)

// ReferenceRepository reads departments and systems.
type ReferenceRepository interface {
	ActiveDepartments(ctx context.Context) ([]models.Department, error)
	ActiveSystems(ctx context.Context) ([]models.System, error)
	Ping(ctx context.Context) error
}

type referenceRepository struct {
	db     *gorm.DB
	readDB *gorm.DB
}

// NewReferenceRepository creates a ReferenceRepository.
func NewReferenceRepository(db, readDB *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db, readDB: readDB}
}

func (r *referenceRepository) ActiveDepartments(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	err := readDB(r.db, r.readDB).WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&departments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return departments, nil
}

func (r *referenceRepository) ActiveSystems(ctx context.Context) ([]models.System, error) {
	systems := []models.System{}
	err := readDB(r.db, r.readDB).WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&systems).Error
	if err != nil {
		return nil, translateError(err)
	}
	return systems, nil
}

// Ping checks the primary store, which every write depends on.
func (r *referenceRepository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}
