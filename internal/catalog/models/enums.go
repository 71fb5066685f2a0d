package models

import (
	"strings"

	dErrors "catalog/pkg/domain-errors"
)

type CourseStatus string

const (
	CourseStatusInProgress CourseStatus = "IN_PROGRESS"
	CourseStatusConcluded  CourseStatus = "CONCLUDED"
	CourseStatusPublished  CourseStatus = "PUBLISHED"
	CourseStatusDraft      CourseStatus = "DRAFT"
)

func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusInProgress, CourseStatusConcluded, CourseStatusPublished, CourseStatusDraft:
		return true
	}
	return false
}

func (s CourseStatus) String() string { return string(s) }

// ParseCourseStatus accepts the canonical upper-case names, case-insensitively.
func ParseCourseStatus(s string) (CourseStatus, error) {
	status := CourseStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid course status: "+s)
	}
	return status, nil
}

type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "BEGINNER"
	CourseLevelIntermediate CourseLevel = "INTERMEDIATE"
	CourseLevelAdvanced     CourseLevel = "ADVANCED"
)

func (l CourseLevel) IsValid() bool {
	switch l {
	case CourseLevelBeginner, CourseLevelIntermediate, CourseLevelAdvanced:
		return true
	}
	return false
}

func (l CourseLevel) String() string { return string(l) }

func ParseCourseLevel(s string) (CourseLevel, error) {
	level := CourseLevel(strings.ToUpper(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid course level: "+s)
	}
	return level, nil
}
