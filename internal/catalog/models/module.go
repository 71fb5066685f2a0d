package models

import (
	"time"

	id "catalog/pkg/domain"
)

// Module belongs to exactly one course. It carries no last-updated timestamp.
type Module struct {
	ID          id.ModuleID `json:"moduleId"`
	CourseID    id.CourseID `json:"courseId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"creationDate"`
}

type ModuleFields struct {
	Title       string
	Description string
}

func NewModule(moduleID id.ModuleID, courseID id.CourseID, f ModuleFields, now time.Time) *Module {
	return &Module{
		ID:          moduleID,
		CourseID:    courseID,
		Title:       f.Title,
		Description: f.Description,
		CreatedAt:   now.UTC(),
	}
}

func (m *Module) ApplyUpdate(f ModuleFields) {
	m.Title = f.Title
	m.Description = f.Description
}

// Lesson belongs to exactly one module. It carries no last-updated timestamp.
type Lesson struct {
	ID          id.LessonID `json:"lessonId"`
	ModuleID    id.ModuleID `json:"moduleId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VideoURL    string      `json:"videoUrl"`
	CreatedAt   time.Time   `json:"creationDate"`
}

type LessonFields struct {
	Title       string
	Description string
	VideoURL    string
}

func NewLesson(lessonID id.LessonID, moduleID id.ModuleID, f LessonFields, now time.Time) *Lesson {
	return &Lesson{
		ID:          lessonID,
		ModuleID:    moduleID,
		Title:       f.Title,
		Description: f.Description,
		VideoURL:    f.VideoURL,
		CreatedAt:   now.UTC(),
	}
}

func (l *Lesson) ApplyUpdate(f LessonFields) {
	l.Title = f.Title
	l.Description = f.Description
	l.VideoURL = f.VideoURL
}

// Enrollment links a user to a course. It is created once and only removed
// together with its course.
type Enrollment struct {
	CourseID  id.CourseID `json:"courseId"`
	UserID    id.UserID   `json:"userId"`
	CreatedAt time.Time   `json:"creationDate"`
}
