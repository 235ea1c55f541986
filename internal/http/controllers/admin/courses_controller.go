package admin

import (
	"net/http"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	dto "github.com/dropDatabas3/ums/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	svc "github.com/dropDatabas3/ums/internal/http/services/admin"
)

// CoursesController maneja /api/admin/courses
type CoursesController struct {
	service svc.CourseService
}

func NewCoursesController(service svc.CourseService) *CoursesController {
	return &CoursesController{service: service}
}

func toCourseInput(req dto.CourseRequest) repository.CourseInput {
	return repository.CourseInput{Code: req.Code, Name: req.Name, Credits: req.Credits, Department: req.Department}
}

func (c *CoursesController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, "CoursesController.List", err)
		return
	}
	resp := make([]dto.Course, 0, len(list))
	for _, co := range list {
		resp = append(resp, toCourse(co))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func (c *CoursesController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CourseRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	co, err := c.service.Create(r.Context(), toCourseInput(req))
	if err != nil {
		helpers.WriteServiceError(w, r, "CoursesController.Create", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.CreatedResponse{Message: "Course created successfully", ID: co.ID})
}

func (c *CoursesController) Update(w http.ResponseWriter, r *http.Request) {
	id, aerr := helpers.IDParam(r, "id")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	var req dto.CourseRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	if err := c.service.Update(r.Context(), id, toCourseInput(req)); err != nil {
		helpers.WriteServiceError(w, r, "CoursesController.Update", err)
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Course updated successfully")
}

func (c *CoursesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, aerr := helpers.IDParam(r, "id")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, "CoursesController.Delete", err)
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Course deleted successfully")
}
