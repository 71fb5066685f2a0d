package domain

import (
	"github.com/google/uuid"

	dErrors "catalog/pkg/domain-errors"
)

// Typed identifiers keep course, module, lesson and user ids from being mixed
// up at call sites. They share uuid.UUID's representation.
type (
	CourseID uuid.UUID
	ModuleID uuid.UUID
	LessonID uuid.UUID
	UserID   uuid.UUID
)

func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return parsed, nil
}

func ParseCourseID(s string) (CourseID, error) {
	u, err := parseUUID("course id", s)
	return CourseID(u), err
}

func ParseModuleID(s string) (ModuleID, error) {
	u, err := parseUUID("module id", s)
	return ModuleID(u), err
}

func ParseLessonID(s string) (LessonID, error) {
	u, err := parseUUID("lesson id", s)
	return LessonID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID("user id", s)
	return UserID(u), err
}

func NewCourseID() CourseID { return CourseID(uuid.New()) }
func NewModuleID() ModuleID { return ModuleID(uuid.New()) }
func NewLessonID() LessonID { return LessonID(uuid.New()) }

func (id CourseID) String() string { return uuid.UUID(id).String() }
func (id ModuleID) String() string { return uuid.UUID(id).String() }
func (id LessonID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string   { return uuid.UUID(id).String() }

func (id CourseID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ModuleID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id LessonID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps JSON payloads in canonical UUID form.

func (id CourseID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ModuleID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id LessonID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id UserID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *CourseID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ModuleID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *LessonID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *UserID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
