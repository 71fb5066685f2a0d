package models

import (
	"encoding/json"
	"strings"

	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
)

type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// UserEvent is one identity lifecycle event from the user events topic.
type UserEvent struct {
	UserID   id.UserID
	Email    string
	FullName string
	Status   UserStatus
	Type     UserType
	ImageURL *string
	Action   ActionType
	Version  int64
}

type userEventPayload struct {
	UserID     string  `json:"userId"`
	Email      string  `json:"email"`
	FullName   string  `json:"fullName"`
	UserStatus string  `json:"userStatus"`
	UserType   string  `json:"userType"`
	ImageURL   *string `json:"imageUrl"`
	ActionType string  `json:"actionType"`
	Version    int64   `json:"version"`
}

// DecodeUserEvent parses and validates an event payload. DELETE events only
// need a user id and action.
func DecodeUserEvent(data []byte) (UserEvent, error) {
	var p userEventPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return UserEvent{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed user event")
	}

	userID, err := id.ParseUserID(p.UserID)
	if err != nil {
		return UserEvent{}, err
	}
	if p.Version < 0 {
		return UserEvent{}, dErrors.New(dErrors.CodeValidation, "version must not be negative")
	}
	action := ActionType(strings.ToUpper(strings.TrimSpace(p.ActionType)))
	ev := UserEvent{UserID: userID, Action: action, Version: p.Version, Email: p.Email, FullName: p.FullName, ImageURL: p.ImageURL}

	switch action {
	case ActionDelete:
		return ev, nil
	case ActionCreate, ActionUpdate:
	default:
		return UserEvent{}, dErrors.New(dErrors.CodeValidation, "invalid action type: "+p.ActionType)
	}
	if ev.Status, err = ParseUserStatus(p.UserStatus); err != nil {
		return UserEvent{}, err
	}
	if ev.Type, err = ParseUserType(p.UserType); err != nil {
		return UserEvent{}, err
	}
	return ev, nil
}

// Replica builds the full-overwrite row an upsert event describes.
func (e UserEvent) Replica() *UserReplica {
	return &UserReplica{
		UserID:   e.UserID,
		Email:    e.Email,
		FullName: e.FullName,
		Status:   e.Status,
		Type:     e.Type,
		ImageURL: e.ImageURL,
		Version:  e.Version,
	}
}
