// Package memory is an in-process implementation of the catalog stores. All
// stores share one DB so RunInTx can hold a single lock across them and restore
// a snapshot when the transaction function fails.
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
)

// ReplicaReader resolves enrolled users for ListUsers.
type ReplicaReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*replicamodels.UserReplica, error)
}

type enrollmentKey struct {
	course id.CourseID
	user   id.UserID
}

type tables struct {
	courses     map[id.CourseID]models.Course
	courseNames map[string]id.CourseID
	modules     map[id.ModuleID]models.Module
	lessons     map[id.LessonID]models.Lesson
	enrollments map[enrollmentKey]models.Enrollment
}

func (t tables) clone() tables {
	return tables{
		courses:     maps.Clone(t.courses),
		courseNames: maps.Clone(t.courseNames),
		modules:     maps.Clone(t.modules),
		lessons:     maps.Clone(t.lessons),
		enrollments: maps.Clone(t.enrollments),
	}
}

type DB struct {
	mu       sync.RWMutex
	data     tables
	replicas ReplicaReader
}

func New(replicas ReplicaReader) *DB {
	return &DB{
		replicas: replicas,
		data: tables{
			courses:     make(map[id.CourseID]models.Course),
			courseNames: make(map[string]id.CourseID),
			modules:     make(map[id.ModuleID]models.Module),
			lessons:     make(map[id.LessonID]models.Lesson),
			enrollments: make(map[enrollmentKey]models.Enrollment),
		},
	}
}

type txMarker struct{}

func (d *DB) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txMarker{}).(*DB)
	return owner == d
}

// RunInTx runs fn while holding the write lock. Store calls made with the
// context passed to fn skip locking; if fn fails every table is restored.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := d.data.clone()
	if err := fn(context.WithValue(ctx, txMarker{}, d)); err != nil {
		d.data = snapshot
		return err
	}
	return nil
}

func (d *DB) read(ctx context.Context, fn func()) {
	if !d.inTx(ctx) {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	fn()
}

func (d *DB) write(ctx context.Context, fn func() error) error {
	if !d.inTx(ctx) {
		d.mu.Lock()
		defer d.mu.Unlock()
	}
	return fn()
}

// Stores returns views of d implementing each catalog store.
func (d *DB) Courses() *CourseStore         { return &CourseStore{db: d} }
func (d *DB) Modules() *ModuleStore         { return &ModuleStore{db: d} }
func (d *DB) Lessons() *LessonStore         { return &LessonStore{db: d} }
func (d *DB) Enrollments() *EnrollmentStore { return &EnrollmentStore{db: d} }

// compareValues orders two sort keys; strings compare case-insensitively.
func compareValues(a, b any) int {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	case string:
		bv, _ := b.(string)
		return cmp.Compare(strings.ToLower(av), strings.ToLower(bv))
	}
	return 0
}

// filterSortPage applies a predicate, sort and page the way the SQL stores do:
// the sort key first, then tie, both in the requested direction.
func filterSortPage[T any](
	all []T,
	pred query.Predicate,
	page query.Page,
	field func(T, string) string,
	sortKey func(T, string) any,
	tie func(T) string,
) ([]T, int64) {
	matched := make([]T, 0, len(all))
	for _, item := range all {
		if pred.Matches(func(f string) string { return field(item, f) }) {
			matched = append(matched, item)
		}
	}
	slices.SortStableFunc(matched, func(a, b T) int {
		c := compareValues(sortKey(a, page.Sort), sortKey(b, page.Sort))
		if c == 0 {
			c = cmp.Compare(tie(a), tie(b))
		}
		if page.Desc {
			return -c
		}
		return c
	})
	return query.Slice(matched, page), int64(len(matched))
}
