package models

import (
	"strings"
	"time"

	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
)

type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

func ParseUserStatus(s string) (UserStatus, error) {
	status := UserStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid user status: "+s)
	}
	return status, nil
}

type UserType string

const (
	UserTypeStudent    UserType = "STUDENT"
	UserTypeUser       UserType = "USER"
	UserTypeInstructor UserType = "INSTRUCTOR"
	UserTypeAdmin      UserType = "ADMIN"
)

func (t UserType) IsValid() bool {
	switch t {
	case UserTypeStudent, UserTypeUser, UserTypeInstructor, UserTypeAdmin:
		return true
	}
	return false
}

// CanInstruct reports whether a user of this type may be a course instructor.
func (t UserType) CanInstruct() bool {
	return t == UserTypeInstructor || t == UserTypeAdmin
}

func ParseUserType(s string) (UserType, error) {
	userType := UserType(strings.ToUpper(strings.TrimSpace(s)))
	if !userType.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid user type: "+s)
	}
	return userType, nil
}

// UserReplica is the local copy of an identity record. Only the synchronizer
// writes it; every event overwrites all fields.
type UserReplica struct {
	UserID    id.UserID  `json:"userId"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Status    UserStatus `json:"userStatus"`
	Type      UserType   `json:"userType"`
	ImageURL  *string    `json:"imageUrl"`
	Version   int64      `json:"-"`
	Deleted   bool       `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

func (u *UserReplica) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}

// Supersedes reports whether an incoming write at version may replace this
// stored row. Version 0 means the producer did not version the event, in which
// case the last delivered event wins.
func (u *UserReplica) Supersedes(version int64) bool {
	if version == 0 {
		return true
	}
	return version >= u.Version
}
