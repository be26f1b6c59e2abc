// Package repository provides data access layer implementations for the application.
package repository

import "gorm.io/gorm"

// readDB picks the replica for read-only queries when one is configured.
func readDB(primary, replica *gorm.DB) *gorm.DB {
	if replica != nil {
		return replica
	}
	return primary
}
