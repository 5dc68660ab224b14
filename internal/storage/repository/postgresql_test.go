package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-platform/internal/models"
	"github.com/magabrotheeeer/course-platform/internal/storage"
)

func newMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Storage{DB: db}, mock
}

func ptr[T any](v T) *T { return &v }

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, storage.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, storage.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: "23503"}, storage.ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.in), tt.want)
		})
	}

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestStorage_CanceledContext(t *testing.T) {
	s, mock := newMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetCourse(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateUser(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, password_hash, phone, city, avatar, role, is_active)")).
		WithArgs("a@example.com", "hash", nil, ptr("Moscow"), nil, models.RoleUser, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.CreateUser(context.Background(), models.User{
		Email:        "a@example.com",
		PasswordHash: "hash",
		City:         ptr("Moscow"),
		Role:         models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateUserDuplicate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := s.CreateUser(context.Background(), models.User{Email: "a@example.com", Role: models.RoleUser})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	cols := []string{"id", "email", "password_hash", "phone", "city", "avatar", "role", "is_active", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = $1")).
		WithArgs("m@example.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(2), "m@example.com", "hash", nil, "Kazan", nil, models.RoleModerator, true, now))

	u, err := s.GetUserByEmail(context.Background(), "m@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)
	assert.True(t, u.IsModerator())
	assert.Nil(t, u.Phone)
	require.NotNil(t, u.City)
	assert.Equal(t, "Kazan", *u.City)

	mock.ExpectQuery("FROM users WHERE email").WillReturnError(sql.ErrNoRows)
	_, err = s.GetUserByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ActivateUser(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_active = TRUE WHERE id = $1")).
		WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.ActivateUser(context.Background(), 3))

	mock.ExpectExec("UPDATE users SET is_active").
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.ActivateUser(context.Background(), 4), storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetCourse(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, preview, owner_id FROM courses WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "preview", "owner_id"}).
			AddRow(int64(1), "Go", "basics", nil, int64(10)))

	c, err := s.GetCourse(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", c.Name)
	require.NotNil(t, c.OwnerID)
	assert.Equal(t, int64(10), *c.OwnerID)

	mock.ExpectQuery("FROM courses WHERE id").WithArgs(int64(2)).WillReturnError(sql.ErrNoRows)
	_, err = s.GetCourse(context.Background(), 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListCourses(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("FROM courses\\s+ORDER BY id\\s+LIMIT \\$1 OFFSET \\$2").
		WithArgs(3, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "preview", "owner_id"}).
			AddRow(int64(4), "Rust", nil, nil, nil).
			AddRow(int64(5), "SQL", nil, nil, int64(1)))

	courses, total, err := s.ListCourses(context.Background(), models.Page{Limit: 3, Offset: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, courses, 2)
	assert.Nil(t, courses[0].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_UpdateAndDeleteLesson(t *testing.T) {
	s, mock := newMock(t)
	lesson := models.Lesson{ID: 9, Name: "Intro", CourseID: ptr(int64(1)), VideoLink: ptr("https://youtube.com/watch?v=1")}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lessons SET name = $1, course_id = $2, preview = $3, video_link = $4 WHERE id = $5")).
		WithArgs("Intro", int64(1), nil, "https://youtube.com/watch?v=1", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateLesson(context.Background(), lesson))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lessons WHERE id = $1")).
		WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.DeleteLesson(context.Background(), 9), storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListCourseLessons(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE course_id = $1 ORDER BY id")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "course_id", "preview", "video_link", "owner_id"}).
			AddRow(int64(1), "One", int64(1), nil, nil, int64(2)).
			AddRow(int64(2), "Two", int64(1), nil, "https://youtube.com/x", int64(2)))

	lessons, err := s.ListCourseLessons(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "https://youtube.com/x", *lessons[1].VideoLink)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := &Storage{DB: db}

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckDatabaseReady(t *testing.T) {
	query := regexp.QuoteMeta("SELECT EXISTS (")

	t.Run("tables present", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, CheckDatabaseReady(context.Background(), s))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("migrations not applied", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := CheckDatabaseReady(context.Background(), s)
		assert.ErrorContains(t, err, "required table payments missing")
	})

	t.Run("query error", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(query).WillReturnError(errors.New("connection reset"))

		assert.Error(t, CheckDatabaseReady(context.Background(), s))
	})
}
