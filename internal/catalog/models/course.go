package models

import (
	"time"

	id "catalog/pkg/domain"
)

// Course is the root of the content hierarchy.
//
// Invariants:
//   - Name is globally unique (enforced by storage, not here)
//   - ID and CreatedAt never change after creation
//   - LastUpdatedAt is refreshed on every update
type Course struct {
	ID            id.CourseID  `json:"courseId"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Status        CourseStatus `json:"courseStatus"`
	Level         CourseLevel  `json:"courseLevel"`
	InstructorID  id.UserID    `json:"userInstructor"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	CreatedAt     time.Time    `json:"creationDate"`
	LastUpdatedAt time.Time    `json:"lastUpdateDate"`
}

// CourseFields are the caller-supplied, replaceable fields of a course.
type CourseFields struct {
	Name         string
	Description  string
	Status       CourseStatus
	Level        CourseLevel
	InstructorID id.UserID
	ImageURL     string
}

func NewCourse(courseID id.CourseID, f CourseFields, now time.Time) *Course {
	now = now.UTC()
	c := &Course{ID: courseID, CreatedAt: now}
	c.apply(f, now)
	return c
}

// ApplyUpdate replaces every mutable field, keeping ID and CreatedAt.
func (c *Course) ApplyUpdate(f CourseFields, now time.Time) {
	c.apply(f, now.UTC())
}

func (c *Course) apply(f CourseFields, now time.Time) {
	c.Name = f.Name
	c.Description = f.Description
	c.Status = f.Status
	c.Level = f.Level
	c.InstructorID = f.InstructorID
	c.ImageURL = f.ImageURL
	c.LastUpdatedAt = now
}
