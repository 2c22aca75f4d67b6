package repository

import (
	"context"
	"testing"

	"wayfare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestTravelRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTravelRepository(db)
	ctx := context.Background()

	travel := &models.Travel{
		Title:    "Three days in Kyoto",
		Content:  "Day one started at Fushimi Inari...",
		Images:   models.StringList{"images/a.jpg"},
		AuthorID: 7,
		Status:   models.StatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "travels"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, travel)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTravelRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTravelRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		travelID      uint
		mockBehavior  func()
		expectedTitle string
		expectedError bool
	}{
		{
			name:     "Success",
			travelID: 1,
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT \* FROM "travels" WHERE travels\.is_deleted = \$1 AND travels\.id = \$2`).
					WithArgs(false, 1, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "status"}).
						AddRow(1, "Three days in Kyoto", 7, "approved"))

				// Author preload
				mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
					WithArgs(7).
					WillReturnRows(sqlmock.NewRows([]string{"id", "username", "nickname"}).
						AddRow(7, "alice", "Wanderer"))
			},
			expectedTitle: "Three days in Kyoto",
		},
		{
			name:     "Not found",
			travelID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT \* FROM "travels" WHERE travels\.is_deleted = \$1 AND travels\.id = \$2`).
					WithArgs(false, 99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			travel, err := repo.GetByID(ctx, tt.travelID)

			if tt.expectedError {
				assert.Error(t, err)
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, models.CodeNotFound, appErr.Code)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTitle, travel.Title)
				require.NotNil(t, travel.Author)
				assert.Equal(t, "Wanderer", travel.Author.Nickname)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTravelRepository_List_StatusFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTravelRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "travels" WHERE travels\.is_deleted = \$1 AND travels\.status = \$2`).
		WithArgs(false, "approved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery(`SELECT \* FROM "travels" WHERE travels\.is_deleted = \$1 AND travels\.status = \$2 ORDER BY travels\.created_at DESC, travels\.id ASC`).
		WithArgs(false, "approved", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "status"}).
			AddRow(2, "Lisbon on foot", 7, "approved").
			AddRow(1, "Three days in Kyoto", 7, "approved"))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nickname"}).AddRow(7, "Wanderer"))

	travels, total, err := repo.List(ctx, TravelListFilter{
		Status: models.StatusApproved,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, travels, 2)
	assert.Equal(t, "Lisbon on foot", travels[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTravelRepository_List_KeywordJoinsAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTravelRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "travels" JOIN users ON users\.id = travels\.author_id WHERE .*LOWER\(travels\.title\) LIKE LOWER\(\$3\) OR LOWER\(users\.nickname\) LIKE LOWER\(\$4\)`).
		WithArgs(false, "approved", "%kyoto%", "%kyoto%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT .* FROM "travels" JOIN users ON users\.id = travels\.author_id WHERE`).
		WithArgs(false, "approved", "%kyoto%", "%kyoto%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "status"}).
			AddRow(1, "Three days in Kyoto", 7, "approved"))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."id" = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nickname"}).AddRow(7, "Wanderer"))

	travels, total, err := repo.List(ctx, TravelListFilter{
		Status:  models.StatusApproved,
		Keyword: "kyoto",
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, travels, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTravelRepository_SoftDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTravelRepository(db)
	ctx := context.Background()

	t.Run("marks row deleted", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "travels" SET "is_deleted"=\$1`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.SoftDelete(ctx, 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already deleted rows report not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "travels" SET "is_deleted"=\$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.SoftDelete(ctx, 1)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTravelRepository_HardDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTravelRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "travels"`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.HardDelete(ctx, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
