package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// CreateCourse вставляет курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int64, error) {
	const op = "storage.CreateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO courses (name, description, preview, owner_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query,
		course.Name, course.Description, course.Preview, course.OwnerID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetCourse возвращает курс по ID.
func (s *Storage) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	const op = "storage.GetCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, name, description, preview, owner_id FROM courses WHERE id = $1`
	var c models.Course
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.Preview, &c.OwnerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &c, nil
}

// UpdateCourse перезаписывает изменяемые поля курса.
func (s *Storage) UpdateCourse(ctx context.Context, course models.Course) error {
	const op = "storage.UpdateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE courses SET name = $1, description = $2, preview = $3 WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, course.Name, course.Description, course.Preview, course.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteCourse удаляет курс. Уроки курса остаются без курса.
func (s *Storage) DeleteCourse(ctx context.Context, id int64) error {
	const op = "storage.DeleteCourse"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := expectAffected(result); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListCourses возвращает страницу курсов и общее количество.
func (s *Storage) ListCourses(ctx context.Context, page models.Page) ([]*models.Course, int, error) {
	const op = "storage.ListCourses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, description, preview, owner_id
			  FROM courses
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Course, 0, page.Limit)
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Preview, &c.OwnerID); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}
