// Package handler exposes the catalog over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/catalog/service"
	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/httputil"
	"catalog/pkg/requestcontext"
)

type CourseService interface {
	Create(ctx context.Context, fields models.CourseFields) (*models.Course, error)
	Update(ctx context.Context, courseID id.CourseID, fields models.CourseFields) (*models.Course, error)
	Get(ctx context.Context, courseID id.CourseID) (*models.Course, error)
	List(ctx context.Context, filter service.CourseFilter, req service.PageRequest) (query.Result[*models.Course], error)
	Delete(ctx context.Context, courseID id.CourseID) error
}

type ModuleService interface {
	Create(ctx context.Context, courseID id.CourseID, fields models.ModuleFields) (*models.Module, error)
	Get(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID) (*models.Module, error)
	Update(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID, fields models.ModuleFields) (*models.Module, error)
	Delete(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID) error
	List(ctx context.Context, courseID id.CourseID, filter service.ModuleFilter, req service.PageRequest) (query.Result[*models.Module], error)
}

type LessonService interface {
	Create(ctx context.Context, moduleID id.ModuleID, fields models.LessonFields) (*models.Lesson, error)
	Get(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID) (*models.Lesson, error)
	Update(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID, fields models.LessonFields) (*models.Lesson, error)
	Delete(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID) error
	List(ctx context.Context, moduleID id.ModuleID, filter service.LessonFilter, req service.PageRequest) (query.Result[*models.Lesson], error)
}

type EnrollmentService interface {
	Subscribe(ctx context.Context, courseID id.CourseID, userID id.UserID) (*models.Enrollment, error)
	ListEnrolledUsers(ctx context.Context, courseID id.CourseID, filter service.UserFilter, req service.PageRequest) (query.Result[*replicamodels.UserReplica], error)
}

// Handler wires the catalog endpoints to the catalog services.
type Handler struct {
	courses     CourseService
	modules     ModuleService
	lessons     LessonService
	enrollments EnrollmentService
	logger      *slog.Logger
}

func New(courses CourseService, modules ModuleService, lessons LessonService, enrollments EnrollmentService, logger *slog.Logger) *Handler {
	return &Handler{
		courses:     courses,
		modules:     modules,
		lessons:     lessons,
		enrollments: enrollments,
		logger:      logger,
	}
}

// Register mounts the catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/courses", func(r chi.Router) {
		r.Post("/", h.HandleCreateCourse)
		r.Get("/", h.HandleListCourses)
		r.Route("/{courseId}", func(r chi.Router) {
			r.Get("/", h.HandleGetCourse)
			r.Put("/", h.HandleUpdateCourse)
			r.Delete("/", h.HandleDeleteCourse)

			r.Post("/modules", h.HandleCreateModule)
			r.Get("/modules", h.HandleListModules)
			r.Get("/modules/{moduleId}", h.HandleGetModule)
			r.Put("/modules/{moduleId}", h.HandleUpdateModule)
			r.Delete("/modules/{moduleId}", h.HandleDeleteModule)

			r.Post("/users/subscription", h.HandleSubscribe)
			r.Get("/users", h.HandleListUsers)
		})
	})
	r.Route("/modules/{moduleId}/lessons", func(r chi.Router) {
		r.Post("/", h.HandleCreateLesson)
		r.Get("/", h.HandleListLessons)
		r.Get("/{lessonId}", h.HandleGetLesson)
		r.Put("/{lessonId}", h.HandleUpdateLesson)
		r.Delete("/{lessonId}", h.HandleDeleteLesson)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	ctx := r.Context()
	attrs = append(attrs, "request_id", requestcontext.RequestID(ctx), "error", err)
	h.logger.WarnContext(ctx, msg, attrs...)
	httputil.WriteError(w, err)
}

func courseIDParam(r *http.Request) (id.CourseID, error) {
	return id.ParseCourseID(chi.URLParam(r, "courseId"))
}

func moduleIDParam(r *http.Request) (id.ModuleID, error) {
	return id.ParseModuleID(chi.URLParam(r, "moduleId"))
}

func lessonIDParam(r *http.Request) (id.LessonID, error) {
	return id.ParseLessonID(chi.URLParam(r, "lessonId"))
}

// HandleCreateCourse handles POST /courses.
func (h *Handler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CourseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	course, err := h.courses.Create(ctx, req.Fields())
	if err != nil {
		h.fail(w, r, "create course failed", err, "name", req.Name)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, course)
}

func (h *Handler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.courses.List(r.Context(), courseFilter(r), page)
	if err != nil {
		h.fail(w, r, "list courses failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleGetCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	course, err := h.courses.Get(r.Context(), courseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, course)
}

func (h *Handler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CourseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	course, err := h.courses.Update(ctx, courseID, req.Fields())
	if err != nil {
		h.fail(w, r, "update course failed", err, "course_id", courseID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, course)
}

// HandleDeleteCourse handles DELETE /courses/{courseId}, removing the course
// with its modules, lessons and enrollments.
func (h *Handler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.courses.Delete(r.Context(), courseID); err != nil {
		h.fail(w, r, "delete course failed", err, "course_id", courseID.String())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCreateModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ModuleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	module, err := h.modules.Create(ctx, courseID, req.Fields())
	if err != nil {
		h.fail(w, r, "create module failed", err, "course_id", courseID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, module)
}

func (h *Handler) HandleListModules(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := parsePage(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter := service.ModuleFilter{Title: r.URL.Query().Get("title")}
	result, err := h.modules.List(r.Context(), courseID, filter, page)
	if err != nil {
		h.fail(w, r, "list modules failed", err, "course_id", courseID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleGetModule(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	module, err := h.modules.Get(r.Context(), courseID, moduleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, module)
}

func (h *Handler) HandleUpdateModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ModuleRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	module, err := h.modules.Update(ctx, courseID, moduleID, req.Fields())
	if err != nil {
		h.fail(w, r, "update module failed", err, "module_id", moduleID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, module)
}

func (h *Handler) HandleDeleteModule(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.modules.Delete(r.Context(), courseID, moduleID); err != nil {
		h.fail(w, r, "delete module failed", err, "module_id", moduleID.String())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCreateLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[LessonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	lesson, err := h.lessons.Create(ctx, moduleID, req.Fields())
	if err != nil {
		h.fail(w, r, "create lesson failed", err, "module_id", moduleID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, lesson)
}

func (h *Handler) HandleListLessons(w http.ResponseWriter, r *http.Request) {
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := parsePage(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter := service.LessonFilter{Title: r.URL.Query().Get("title")}
	result, err := h.lessons.List(r.Context(), moduleID, filter, page)
	if err != nil {
		h.fail(w, r, "list lessons failed", err, "module_id", moduleID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleGetLesson(w http.ResponseWriter, r *http.Request) {
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lessonID, err := lessonIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lesson, err := h.lessons.Get(r.Context(), moduleID, lessonID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, lesson)
}

func (h *Handler) HandleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lessonID, err := lessonIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[LessonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	lesson, err := h.lessons.Update(ctx, moduleID, lessonID, req.Fields())
	if err != nil {
		h.fail(w, r, "update lesson failed", err, "lesson_id", lessonID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, lesson)
}

func (h *Handler) HandleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	moduleID, err := moduleIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lessonID, err := lessonIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.lessons.Delete(r.Context(), moduleID, lessonID); err != nil {
		h.fail(w, r, "delete lesson failed", err, "lesson_id", lessonID.String())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubscribe handles POST /courses/{courseId}/users/subscription.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SubscriptionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	enrollment, err := h.enrollments.Subscribe(ctx, courseID, req.ParsedUserID())
	if err != nil {
		h.fail(w, r, "subscription failed", err,
			"course_id", courseID.String(),
			"user_id", req.UserID,
		)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, enrollment)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	courseID, err := courseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := parsePage(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	result, err := h.enrollments.ListEnrolledUsers(r.Context(), courseID, userFilter(r), page)
	if err != nil {
		h.fail(w, r, "list course users failed", err, "course_id", courseID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
