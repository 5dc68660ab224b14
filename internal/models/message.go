package models

import "time"

// LessonUpdated команда на рассылку подписчикам курса после изменения урока.
// Получатели и названия определяются при обработке, а не при постановке в очередь.
type LessonUpdated struct {
	MessageID string    `json:"message_id"`
	LessonID  int64     `json:"lesson_id"`
	CourseID  *int64    `json:"course_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
