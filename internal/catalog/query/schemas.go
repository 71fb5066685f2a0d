package query

// Field names shared by the handlers, services and both store implementations.
const (
	FieldCourseID      = "courseId"
	FieldModuleID      = "moduleId"
	FieldUserID        = "userId"
	FieldInstructorID  = "instructorId"
	FieldName          = "name"
	FieldTitle         = "title"
	FieldStatus        = "status"
	FieldLevel         = "level"
	FieldType          = "type"
	FieldEmail         = "email"
	FieldFullName      = "fullName"
	FieldCreatedAt     = "createdAt"
	FieldLastUpdatedAt = "lastUpdatedAt"
)

var eq = []Op{OpEq}
var contains = []Op{OpContains}

// Courses filters the courses table aliased as c. The userId filter matches
// courses the user is enrolled in.
var Courses = NewSchema("course", map[string]Column{
	FieldName:         {Expr: "c.name", Ops: contains, Sortable: true},
	FieldStatus:       {Expr: "c.status", Ops: eq, Sortable: true},
	FieldLevel:        {Expr: "c.level", Ops: eq, Sortable: true},
	FieldInstructorID: {Expr: "c.instructor_id", Ops: eq},
	FieldUserID: {Ops: eq, Render: func(placeholder string) string {
		return "EXISTS (SELECT 1 FROM course_users cu WHERE cu.course_id = c.id AND cu.user_id = " + placeholder + ")"
	}},
	FieldCreatedAt:     {Expr: "c.created_at", Sortable: true},
	FieldLastUpdatedAt: {Expr: "c.last_updated_at", Sortable: true},
}, FieldCreatedAt, "c.id")

// Modules filters the modules table aliased as m.
var Modules = NewSchema("module", map[string]Column{
	FieldCourseID:  {Expr: "m.course_id", Ops: eq},
	FieldTitle:     {Expr: "m.title", Ops: contains, Sortable: true},
	FieldCreatedAt: {Expr: "m.created_at", Sortable: true},
}, FieldCreatedAt, "m.id")

// Lessons filters the lessons table aliased as l.
var Lessons = NewSchema("lesson", map[string]Column{
	FieldModuleID:  {Expr: "l.module_id", Ops: eq},
	FieldTitle:     {Expr: "l.title", Ops: contains, Sortable: true},
	FieldCreatedAt: {Expr: "l.created_at", Sortable: true},
}, FieldCreatedAt, "l.id")

// EnrolledUsers filters course_users cu joined to live user_replicas u.
var EnrolledUsers = NewSchema("user", map[string]Column{
	FieldCourseID: {Expr: "cu.course_id", Ops: eq},
	FieldUserID:   {Expr: "u.user_id", Ops: eq, Sortable: true},
	FieldStatus:   {Expr: "u.status", Ops: eq, Sortable: true},
	FieldType:     {Expr: "u.type", Ops: eq, Sortable: true},
	FieldEmail:    {Expr: "u.email", Ops: contains, Sortable: true},
	FieldFullName: {Expr: "u.full_name", Ops: contains, Sortable: true},
}, FieldUserID, "u.user_id")
