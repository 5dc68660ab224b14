package models

// Page параметры постраничного вывода.
type Page struct {
	Limit  int
	Offset int
}

// PaymentFilter фильтры и сортировка списка платежей.
type PaymentFilter struct {
	PaidCourseID *int64
	PaidLessonID *int64
	Method       *PaymentMethod
	UserEmail    string // поиск по вхождению
	UserID       *int64 // только платежи пользователя
	Descending   bool   // сортировка по payment_date
	Page
}
