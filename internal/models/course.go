package models

// Course учебный курс. OwnerID обнуляется при удалении владельца.
type Course struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Preview     *string `json:"course_preview,omitempty"`
	OwnerID     *int64  `json:"owner,omitempty"`
}

// Owner возвращает идентификатор владельца курса.
func (c *Course) Owner() *int64 {
	if c == nil {
		return nil
	}
	return c.OwnerID
}

// CourseDetail курс вместе с уроками и признаком подписки текущего пользователя.
type CourseDetail struct {
	Course
	LessonCount  int       `json:"lesson_count"`
	Lessons      []*Lesson `json:"lessons"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// CourseInput данные для создания и изменения курса.
type CourseInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
	Preview     *string `json:"course_preview,omitempty" validate:"omitempty,max=255"`
}

// Lesson урок. CourseID обнуляется при удалении курса.
type Lesson struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	CourseID  *int64  `json:"course,omitempty"`
	Preview   *string `json:"lesson_preview,omitempty"`
	VideoLink *string `json:"link_to_video,omitempty"`
	OwnerID   *int64  `json:"owner,omitempty"`
}

// Owner возвращает идентификатор владельца урока.
func (l *Lesson) Owner() *int64 {
	if l == nil {
		return nil
	}
	return l.OwnerID
}

// LessonInput данные для создания и изменения урока.
type LessonInput struct {
	Name      string  `json:"name" validate:"required,max=100"`
	CourseID  *int64  `json:"course,omitempty" validate:"omitempty,gt=0"`
	Preview   *string `json:"lesson_preview,omitempty" validate:"omitempty,max=255"`
	VideoLink *string `json:"link_to_video,omitempty" validate:"omitempty,url,youtube"`
}

// Patch переводит полные данные курса в изменение всех полей.
func (in CourseInput) Patch() CoursePatch {
	name := in.Name
	return CoursePatch{Name: &name, Description: in.Description, Preview: in.Preview}
}

// CoursePatch частичное изменение курса: меняются только переданные поля.
type CoursePatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Preview     *string `json:"course_preview,omitempty" validate:"omitempty,max=255"`
}

// Apply применяет изменение к курсу.
func (p CoursePatch) Apply(c *Course) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.Preview != nil {
		c.Preview = p.Preview
	}
}

// Patch переводит полные данные урока в изменение всех полей.
func (in LessonInput) Patch() LessonPatch {
	name := in.Name
	return LessonPatch{Name: &name, CourseID: in.CourseID, Preview: in.Preview, VideoLink: in.VideoLink}
}

// LessonPatch частичное изменение урока.
type LessonPatch struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	CourseID  *int64  `json:"course,omitempty" validate:"omitempty,gt=0"`
	Preview   *string `json:"lesson_preview,omitempty" validate:"omitempty,max=255"`
	VideoLink *string `json:"link_to_video,omitempty" validate:"omitempty,url,youtube"`
}

// Apply применяет изменение к уроку.
func (p LessonPatch) Apply(l *Lesson) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.CourseID != nil {
		l.CourseID = p.CourseID
	}
	if p.Preview != nil {
		l.Preview = p.Preview
	}
	if p.VideoLink != nil {
		l.VideoLink = p.VideoLink
	}
}
