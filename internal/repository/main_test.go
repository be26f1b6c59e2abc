package repository

import (
	"testing"
	"time"

	"accessdash/internal/database"
	"accessdash/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLiteDB returns an in-memory database with the application schema
// and one request owned by Ada Lovelace in Finance.
func setupSQLiteDB(t *testing.T) (*gorm.DB, *models.AccessRequest) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	user := models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	reviewer := models.User{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}
	dept := models.Department{Name: "Finance", Code: "FIN", IsActive: true}
	sys := models.System{Name: "System A", Code: "SYSA", Description: "Core ledger", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&reviewer).Error)
	require.NoError(t, db.Create(&dept).Error)
	require.NoError(t, db.Create(&sys).Error)

	req := &models.AccessRequest{
		RequestCode:           "REQ-2024-ABCDEF12",
		UUID:                  "abcdef12-0000-4000-8000-000000000001",
		RequesterID:           user.ID,
		DepartmentID:          dept.ID,
		SystemID:              sys.ID,
		RequestType:           models.RequestTypeSystemAccess,
		Priority:              models.PriorityHigh,
		Status:                models.StatusPending,
		Title:                 "Ledger read access",
		BusinessJustification: "Month end close",
		AccessLevel:           models.DefaultAccessLevel,
		SubmittedAt:           time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		CreatedBy:             user.ID,
	}
	require.NoError(t, db.Create(req).Error)
	return db, req
}
