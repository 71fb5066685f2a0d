package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/service"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
)

const (
	maxNameLength        = 150
	maxDescriptionLength = 4000
	maxURLLength         = 2048
)

// CourseRequest is the body of POST /courses and PUT /courses/{courseId}.
type CourseRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	CourseStatus   string `json:"courseStatus"`
	CourseLevel    string `json:"courseLevel"`
	UserInstructor string `json:"userInstructor"`
	ImageURL       string `json:"imageUrl"`

	fields models.CourseFields
}

func (r *CourseRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	if len(r.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name is too long")
	}
	if len(r.Description) > maxDescriptionLength {
		return dErrors.New(dErrors.CodeValidation, "description is too long")
	}
	if len(r.ImageURL) > maxURLLength {
		return dErrors.New(dErrors.CodeValidation, "imageUrl is too long")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	status, err := models.ParseCourseStatus(r.CourseStatus)
	if err != nil {
		return err
	}
	level, err := models.ParseCourseLevel(r.CourseLevel)
	if err != nil {
		return err
	}
	if strings.TrimSpace(r.UserInstructor) == "" {
		return dErrors.New(dErrors.CodeValidation, "userInstructor is required")
	}
	instructorID, err := id.ParseUserID(r.UserInstructor)
	if err != nil {
		return err
	}

	r.fields = models.CourseFields{
		Name:         r.Name,
		Description:  r.Description,
		Status:       status,
		Level:        level,
		InstructorID: instructorID,
		ImageURL:     r.ImageURL,
	}
	return nil
}

// Fields returns the validated course fields.
func (r *CourseRequest) Fields() models.CourseFields { return r.fields }

// ModuleRequest is the body for creating or updating a module.
type ModuleRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *ModuleRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if len(r.Title) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "title is too long")
	}
	if len(r.Description) > maxDescriptionLength {
		return dErrors.New(dErrors.CodeValidation, "description is too long")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	return nil
}

func (r *ModuleRequest) Fields() models.ModuleFields {
	return models.ModuleFields{Title: r.Title, Description: r.Description}
}

// LessonRequest is the body for creating or updating a lesson.
type LessonRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

func (r *LessonRequest) Validate() error {
	m := ModuleRequest{Title: r.Title, Description: r.Description}
	if err := m.Validate(); err != nil {
		return err
	}
	r.Title, r.Description = m.Title, m.Description
	r.VideoURL = strings.TrimSpace(r.VideoURL)
	if len(r.VideoURL) > maxURLLength {
		return dErrors.New(dErrors.CodeValidation, "videoUrl is too long")
	}
	if r.VideoURL == "" {
		return dErrors.New(dErrors.CodeValidation, "videoUrl is required")
	}
	return nil
}

func (r *LessonRequest) Fields() models.LessonFields {
	return models.LessonFields{Title: r.Title, Description: r.Description, VideoURL: r.VideoURL}
}

// SubscriptionRequest is the body of POST /courses/{courseId}/users/subscription.
type SubscriptionRequest struct {
	UserID string `json:"userId"`

	userID id.UserID
}

func (r *SubscriptionRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return dErrors.New(dErrors.CodeValidation, "userId is required")
	}
	userID, err := id.ParseUserID(r.UserID)
	if err != nil {
		return err
	}
	r.userID = userID
	return nil
}

// ParsedUserID returns the validated subscriber id.
func (r *SubscriptionRequest) ParsedUserID() id.UserID { return r.userID }

// parsePage reads page, size, sort and direction. sort also accepts the
// "field,desc" form.
func parsePage(q url.Values) (service.PageRequest, error) {
	var req service.PageRequest
	var err error
	if req.Number, err = intParam(q, "page"); err != nil {
		return req, err
	}
	if req.Size, err = intParam(q, "size"); err != nil {
		return req, err
	}

	sort, dir, _ := strings.Cut(q.Get("sort"), ",")
	req.Sort = strings.TrimSpace(sort)
	if d := q.Get("direction"); d != "" {
		dir = d
	}
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", "ASC":
	case "DESC":
		req.Desc = true
	default:
		return req, dErrors.New(dErrors.CodeValidation, "direction must be ASC or DESC")
	}
	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be an integer")
	}
	return n, nil
}

func courseFilter(r *http.Request) service.CourseFilter {
	q := r.URL.Query()
	return service.CourseFilter{
		Name:         q.Get("name"),
		Status:       firstParam(q, "status", "courseStatus"),
		Level:        firstParam(q, "level", "courseLevel"),
		UserID:       q.Get("userId"),
		InstructorID: q.Get("userInstructor"),
	}
}

func userFilter(r *http.Request) service.UserFilter {
	q := r.URL.Query()
	return service.UserFilter{
		Status:   q.Get("userStatus"),
		Type:     q.Get("userType"),
		Email:    q.Get("email"),
		FullName: q.Get("fullName"),
	}
}

func firstParam(q url.Values, names ...string) string {
	for _, name := range names {
		if v := q.Get(name); v != "" {
			return v
		}
	}
	return ""
}
