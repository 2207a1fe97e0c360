package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"marketplace-service/models"
	"marketplace-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLockForOrder_TakesRowLocks(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stock_quantity", "price", "status", "approval_status", "created_at", "updated_at"}).
			AddRow(id, 5, int64(100000), models.ProductStatusActive, models.ApprovalStatusApproved, now, now))

	products, err := repo.LockForOrder(context.Background(), []uuid.UUID{id})
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 5, products[0].StockQuantity)
}

func TestDecrementStock_Applies(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.DecrementStock(context.Background(), uuid.New(), 2)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestDecrementStock_InsufficientStock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.DecrementStock(context.Background(), uuid.New(), 99)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateApprovalGuarded_Applies(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.UpdateApprovalGuarded(context.Background(), uuid.New(),
		models.ApprovalStatusPending, models.ApprovalStatusApproved, models.ProductStatusActive)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateApprovalGuarded_AlreadyDecided(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.UpdateApprovalGuarded(context.Background(), uuid.New(),
		models.ApprovalStatusPending, models.ApprovalStatusRejected, models.ProductStatusInactive)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSubmitGuarded_StaleStatus(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.SubmitGuarded(context.Background(), uuid.New(), models.ProductStatusDraft)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFindPendingApproval_Paginates(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "approval_status", "created_at", "updated_at"}).
			AddRow(id, models.ProductStatusPendingApproval, models.ApprovalStatusPending, now, now))

	products, total, err := repo.FindPendingApproval(context.Background(), 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, products, 1)
	assert.Equal(t, models.ProductStatusPendingApproval, products[0].Status)
}
