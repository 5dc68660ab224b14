package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const lessonColumns = `id, name, course_id, preview, video_link, owner_id`

func scanLesson(row rowScanner) (*models.Lesson, error) {
	var l models.Lesson
	if err := row.Scan(&l.ID, &l.Name, &l.CourseID, &l.Preview, &l.VideoLink, &l.OwnerID); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLesson вставляет урок и возвращает его ID.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (int64, error) {
	const op = "storage.CreateLesson"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO lessons (name, course_id, preview, video_link, owner_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		lesson.Name, lesson.CourseID, lesson.Preview, lesson.VideoLink, lesson.OwnerID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetLesson возвращает урок по ID.
func (s *Storage) GetLesson(ctx context.Context, id int64) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	l, err := scanLesson(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return l, nil
}

// UpdateLesson перезаписывает изменяемые поля урока.
func (s *Storage) UpdateLesson(ctx context.Context, lesson models.Lesson) error {
	const op = "storage.UpdateLesson"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE lessons SET name = $1, course_id = $2, preview = $3, video_link = $4 WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		lesson.Name, lesson.CourseID, lesson.Preview, lesson.VideoLink, lesson.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteLesson удаляет урок.
func (s *Storage) DeleteLesson(ctx context.Context, id int64) error {
	const op = "storage.DeleteLesson"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListLessons возвращает страницу уроков и общее количество.
func (s *Storage) ListLessons(ctx context.Context, page models.Page) ([]*models.Lesson, int, error) {
	const op = "storage.ListLessons"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT ` + lessonColumns + `
			  FROM lessons
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	lessons, err := collectLessons(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return lessons, total, nil
}

// ListCourseLessons возвращает все уроки курса.
func (s *Storage) ListCourseLessons(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	const op = "storage.ListCourseLessons"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	lessons, err := collectLessons(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lessons, nil
}

func collectLessons(rows *sql.Rows) ([]*models.Lesson, error) {
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
