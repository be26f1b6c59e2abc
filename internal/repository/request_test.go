package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"accessdash/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRepository_CreateForeignKeyViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "access_requests"`)).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.AccessRequest{RequesterID: 999, Status: models.StatusPending})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeReference, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_GetDetailNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM access_requests ar JOIN departments d ON ar.department_id = d.id`)).
		WithArgs("REQ-2024-MISSING0", "REQ-2024-MISSING0", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	detail, err := repo.GetDetail(context.Background(), "REQ-2024-MISSING0")
	assert.Nil(t, detail)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_TransitionMissingRequestWritesNothing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "access_requests" WHERE id = $1 ORDER BY "access_requests"."id" LIMIT $2 FOR UPDATE`)).
		WithArgs(404, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	called := false
	_, err := repo.Transition(context.Background(), "404", func(req *models.AccessRequest) *models.Comment {
		called = true
		return &models.Comment{Body: "never written"}
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Equal(t, "Request 404 not found", appErr.Message)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_TransitionRollsBackWhenCommentFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "access_requests" WHERE id = $1`)).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "priority", "submitted_at"}).
			AddRow(7, "Pending", "High", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "access_requests" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "request_comments"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Transition(context.Background(), "7", func(req *models.AccessRequest) *models.Comment {
		req.Status = models.StatusApproved
		return &models.Comment{UserID: 2, CommentType: models.CommentTypeApproval, Body: "ok"}
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeStoreUnavailable, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_TransitionCommitsStatusAndComment(t *testing.T) {
	db, seeded := setupSQLiteDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	updated, err := repo.Transition(ctx, seeded.RequestCode, func(req *models.AccessRequest) *models.Comment {
		req.Status = models.StatusApproved
		by := uint(2)
		req.UpdatedBy = &by
		return &models.Comment{UserID: 2, CommentType: models.CommentTypeApproval, Body: "Approved for Q2"}
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)

	var stored models.AccessRequest
	require.NoError(t, db.First(&stored, seeded.ID).Error)
	assert.Equal(t, models.StatusApproved, stored.Status)
	require.NotNil(t, stored.UpdatedBy)
	assert.Equal(t, uint(2), *stored.UpdatedBy)

	comments, err := repo.ListComments(ctx, seeded.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, models.CommentTypeApproval, comments[0].CommentType)
	assert.Equal(t, "Approved for Q2", comments[0].Body)
	assert.Equal(t, "Grace Hopper", comments[0].CommenterName)
}

func TestRequestRepository_TransitionWithoutComment(t *testing.T) {
	db, seeded := setupSQLiteDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	_, err := repo.Transition(ctx, seeded.UUID, func(req *models.AccessRequest) *models.Comment {
		req.Status = models.StatusCancelled
		return nil
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRequestRepository_GetDetailJoinsDisplayNames(t *testing.T) {
	db, seeded := setupSQLiteDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	for _, key := range []string{seeded.RequestCode, seeded.UUID, "1"} {
		detail, err := repo.GetDetail(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, seeded.ID, detail.ID)
		assert.Equal(t, "REQ-2024-ABCDEF12", detail.RequestCode)
		assert.Equal(t, "Finance", detail.DepartmentName)
		assert.Equal(t, "System A", detail.SystemName)
		assert.Equal(t, "Core ledger", detail.SystemDescription)
		assert.Equal(t, "Ada Lovelace", detail.RequesterName)
		assert.Equal(t, "ada@example.com", detail.RequesterEmail)
		assert.Nil(t, detail.AssignedToName)
	}

	_, err := repo.GetDetail(ctx, "999")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestRequestRepository_ListCommentsOldestFirst(t *testing.T) {
	db, seeded := setupSQLiteDB(t)
	repo := NewRequestRepository(db)

	base := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Comment{RequestID: seeded.ID, UserID: 1, CommentType: models.CommentTypeGeneral, Body: "second", CreatedAt: base.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Comment{RequestID: seeded.ID, UserID: 2, CommentType: models.CommentTypeGeneral, Body: "first", CreatedAt: base}).Error)

	comments, err := repo.ListComments(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "Grace Hopper", comments[0].CommenterName)
	assert.Equal(t, "second", comments[1].Body)

	empty, err := repo.ListComments(context.Background(), 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
