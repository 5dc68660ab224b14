package models

import "time"

// PaymentMethod способ оплаты.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// Valid проверяет, что способ оплаты из допустимого перечня.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentTransfer
}

// TargetKind тип оплачиваемого объекта.
type TargetKind string

const (
	TargetCourse TargetKind = "course"
	TargetLesson TargetKind = "lesson"
)

// Target оплачиваемый объект: курс или урок.
type Target struct {
	Kind TargetKind
	ID   int64
}

// Payment платеж пользователя. SessionID и PaymentURL либо оба пусты (ожидает оплаты),
// либо оба заполнены.
type Payment struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user"`
	PaidCourseID *int64        `json:"paid_course,omitempty"`
	PaidLessonID *int64        `json:"paid_lesson,omitempty"`
	Amount       int64         `json:"amount"`
	Method       PaymentMethod `json:"payment_method"`
	SessionID    *string       `json:"stripe_session_id,omitempty"`
	PaymentURL   *string       `json:"stripe_payment_url,omitempty"`
	PaymentDate  time.Time     `json:"payment_date"`
}

// IsFinalized сообщает, привязана ли к платежу сессия оплаты.
func (p *Payment) IsFinalized() bool {
	return p.SessionID != nil && p.PaymentURL != nil
}

// PurchaseRequest запрос на покупку курса или урока.
type PurchaseRequest struct {
	CourseID *int64        `json:"paid_course,omitempty" validate:"omitempty,gt=0"`
	LessonID *int64        `json:"paid_lesson,omitempty" validate:"omitempty,gt=0"`
	Amount   int64         `json:"amount" validate:"required,gt=0"`
	Method   PaymentMethod `json:"payment_method" validate:"required,oneof=cash transfer"`
}
