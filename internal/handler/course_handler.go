package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/course-catalog/internal/model"
	"github.com/stemsi/course-catalog/internal/response"
	"github.com/stemsi/course-catalog/internal/service"
	"github.com/stemsi/course-catalog/internal/validator"
)

// CourseHandler serves the read side of the catalog.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/courses
// Returns one page of courses matching the query-string filters.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	f := filtersFromQuery(c)
	p := service.NormalizePagination(
		queryInt(c, "page", service.DefaultPage),
		queryInt(c, "page_size", service.DefaultPageSize),
	)

	resp, err := h.courseService.List(c.Request.Context(), f, p)
	if err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// CompareCourses godoc
// GET /api/compare?ids=CS101,CS102
// Returns the named courses in the order they were requested.
func (h *CourseHandler) CompareCourses(c *gin.Context) {
	resp, err := h.courseService.Compare(c.Request.Context(), c.Query("ids"))
	if err != nil {
		if errors.Is(err, service.ErrIDsRequired) {
			response.Fail(c, http.StatusBadRequest, response.ErrIDsRequired)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Ask godoc
// POST /api/ask
// Extracts filters from a free-text question and returns matching courses.
func (h *CourseHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.courseService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// filtersFromQuery reads the list filters. Unparseable numbers and unknown
// enum values are dropped rather than rejected.
func filtersFromQuery(c *gin.Context) model.FilterSet {
	var f model.FilterSet

	if v := strings.TrimSpace(c.Query("search")); v != "" {
		f.Search = &v
	}
	if v := strings.TrimSpace(c.Query("department")); v != "" {
		f.Department = &v
	}
	if lvl, ok := model.ParseLevel(c.Query("level")); ok {
		f.Level = &lvl
	}
	if mode, ok := model.ParseDeliveryMode(c.Query("delivery_mode")); ok {
		f.DeliveryMode = &mode
	}

	f.MinCredits = queryIntPtr(c, "min_credits")
	f.MaxCredits = queryIntPtr(c, "max_credits")
	f.MaxFee = queryIntPtr(c, "max_fee")
	f.YearOffered = queryIntPtr(c, "year_offered")

	if v, err := strconv.ParseFloat(strings.TrimSpace(c.Query("min_rating")), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		f.MinRating = &v
	}

	return f
}

func queryInt(c *gin.Context, key string, def int) int {
	if p := queryIntPtr(c, key); p != nil {
		return *p
	}
	return def
}

func queryIntPtr(c *gin.Context, key string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return nil
	}
	return &n
}
