package service

import (
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
)

// PageRequest is caller paging input; zero values select the defaults.
type PageRequest struct {
	Number int
	Size   int
	Sort   string
	Desc   bool
}

func (d *deps) page(schema *query.Schema, req PageRequest) (query.Page, error) {
	return query.NewPage(schema, req.Number, req.Size, req.Sort, req.Desc, d.maxPageSize)
}

// CourseFilter holds optional course filters. Empty fields match everything.
type CourseFilter struct {
	Name         string
	Status       string
	Level        string
	UserID       string
	InstructorID string
}

func (f CourseFilter) predicate() (query.Predicate, error) {
	b := query.Unscoped(query.Courses).Contains(query.FieldName, f.Name)
	if f.Status != "" {
		status, err := models.ParseCourseStatus(f.Status)
		if err != nil {
			return query.Predicate{}, err
		}
		b.Eq(query.FieldStatus, string(status))
	}
	if f.Level != "" {
		level, err := models.ParseCourseLevel(f.Level)
		if err != nil {
			return query.Predicate{}, err
		}
		b.Eq(query.FieldLevel, string(level))
	}
	if f.UserID != "" {
		userID, err := id.ParseUserID(f.UserID)
		if err != nil {
			return query.Predicate{}, err
		}
		b.Eq(query.FieldUserID, userID.String())
	}
	if f.InstructorID != "" {
		instructorID, err := id.ParseUserID(f.InstructorID)
		if err != nil {
			return query.Predicate{}, err
		}
		b.Eq(query.FieldInstructorID, instructorID.String())
	}
	return b.Build()
}

type ModuleFilter struct {
	Title string
}

func (f ModuleFilter) predicate(courseID id.CourseID) (query.Predicate, error) {
	return query.Scoped(query.Modules, query.FieldCourseID, courseID.String()).
		Contains(query.FieldTitle, f.Title).
		Build()
}

type LessonFilter struct {
	Title string
}

func (f LessonFilter) predicate(moduleID id.ModuleID) (query.Predicate, error) {
	return query.Scoped(query.Lessons, query.FieldModuleID, moduleID.String()).
		Contains(query.FieldTitle, f.Title).
		Build()
}

// UserFilter narrows the users enrolled in one course.
type UserFilter struct {
	Status   string
	Type     string
	Email    string
	FullName string
}

func (f UserFilter) predicate(courseID id.CourseID) (query.Predicate, error) {
	b := query.Scoped(query.EnrolledUsers, query.FieldCourseID, courseID.String()).
		Contains(query.FieldEmail, f.Email).
		Contains(query.FieldFullName, f.FullName)
	if f.Status != "" {
		status, err := replicamodels.ParseUserStatus(f.Status)
		if err != nil {
			return query.Predicate{}, err
		}
		b.Eq(query.FieldStatus, string(status))
	}
	if f.Type != "" {
		userType, err := replicamodels.ParseUserType(f.Type)
		if err != nil {
			return query.Predicate{}, err
		}
		b.Eq(query.FieldType, string(userType))
	}
	return b.Build()
}
