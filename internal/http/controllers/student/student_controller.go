// Package student contiene el controller de /api/student.
package student

import (
	"net/http"

	dto "github.com/dropDatabas3/ums/internal/http/dto/student"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	mw "github.com/dropDatabas3/ums/internal/http/middlewares"
	svc "github.com/dropDatabas3/ums/internal/http/services/student"
)

type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// AvailableCourses maneja GET /api/student/available-courses
func (c *Controller) AvailableCourses(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.AvailableCourses(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, "StudentController.AvailableCourses", err)
		return
	}
	resp := make([]dto.AvailableCourse, 0, len(list))
	for _, oc := range list {
		resp = append(resp, dto.AvailableCourse{
			OfferedCourseID: oc.ID,
			CourseCode:      oc.CourseCode,
			CourseName:      oc.CourseName,
			Credits:         oc.Credits,
			InstructorName:  oc.InstructorName,
			Semester:        string(oc.Semester),
			Year:            oc.Year,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// RegisterCourse maneja POST /api/student/register-course
func (c *Controller) RegisterCourse(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	var req dto.RegisterCourseRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	e, err := c.service.Register(r.Context(), ac.PrincipalID, req.OfferedCourseID)
	if err != nil {
		helpers.WriteServiceError(w, r, "StudentController.RegisterCourse", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, helpers.Message{Message: "Course registration successful", ID: e.ID})
}

// MyCourses maneja GET /api/student/my-courses
func (c *Controller) MyCourses(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	list, err := c.service.MyCourses(r.Context(), ac.PrincipalID)
	if err != nil {
		helpers.WriteServiceError(w, r, "StudentController.MyCourses", err)
		return
	}
	resp := make([]dto.MyCourse, 0, len(list))
	for _, e := range list {
		resp = append(resp, dto.MyCourse{
			OfferedCourseID: e.OfferedCourseID,
			CourseCode:      e.Offering.CourseCode,
			CourseName:      e.Offering.CourseName,
			InstructorName:  e.Offering.InstructorName,
			Semester:        string(e.Offering.Semester),
			Year:            e.Offering.Year,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// CourseMarks maneja GET /api/student/course-marks/{offeredCourseId}
func (c *Controller) CourseMarks(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	ocID, aerr := helpers.IDParam(r, "offeredCourseId")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	marks, err := c.service.CourseMarks(r.Context(), ac.PrincipalID, ocID)
	if err != nil {
		helpers.WriteServiceError(w, r, "StudentController.CourseMarks", err)
		return
	}
	resp := make([]dto.Mark, 0, len(marks))
	for _, m := range marks {
		resp = append(resp, dto.Mark{ActivityType: m.ActivityType, Marks: m.Marks, TotalMarks: m.TotalMarks})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
