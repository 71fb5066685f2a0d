// Package authz decides who may be named instructor of a course.
package authz

import (
	"context"
	"errors"

	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/requestcontext"
)

const RoleAdmin = "ADMIN"

type ReplicaReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*replicamodels.UserReplica, error)
}

// InstructorPolicy checks an instructor assignment against the caller and the
// local identity replica.
type InstructorPolicy struct {
	replicas ReplicaReader
}

func NewInstructorPolicy(replicas ReplicaReader) *InstructorPolicy {
	return &InstructorPolicy{replicas: replicas}
}

// AuthorizeInstructor allows the assignment when the caller is the instructor
// or an admin, and the instructor's replica has a type that may teach.
func (p *InstructorPolicy) AuthorizeInstructor(ctx context.Context, instructorID id.UserID) error {
	caller := requestcontext.UserID(ctx)
	if caller != instructorID && !requestcontext.HasRole(ctx, RoleAdmin) {
		return dErrors.New(dErrors.CodeForbidden, "only the instructor or an admin may assign this instructor")
	}

	replica, err := p.replicas.FindByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "instructor not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load instructor")
	}
	if !replica.Type.CanInstruct() {
		return dErrors.New(dErrors.CodeForbidden, "user is not an instructor")
	}
	return nil
}
