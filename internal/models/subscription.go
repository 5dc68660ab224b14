package models

import "time"

// Subscription подписка пользователя на курс. Пара (UserID, CourseID) уникальна.
type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CourseID  int64     `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionStatus результат переключения подписки.
type SubscriptionStatus string

const (
	Subscribed   SubscriptionStatus = "subscribed"
	Unsubscribed SubscriptionStatus = "unsubscribed"
)

// ToggleRequest тело запроса на подписку или отписку.
type ToggleRequest struct {
	CourseID int64 `json:"course_id" validate:"required,gt=0"`
}
