package database

import "accessdash/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Department{},
		&models.System{},
		&models.AccessRequest{},
		&models.Comment{},
	}
}
