// Package instructor contiene el controller de /api/instructor.
package instructor

import (
	"net/http"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	dto "github.com/dropDatabas3/ums/internal/http/dto/instructor"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	mw "github.com/dropDatabas3/ums/internal/http/middlewares"
	svc "github.com/dropDatabas3/ums/internal/http/services/instructor"
)

type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func toOffered(oc repository.OfferedCourse) dto.OfferedCourse {
	return dto.OfferedCourse{
		ID:         oc.ID,
		CourseID:   oc.CourseID,
		CourseCode: oc.CourseCode,
		CourseName: oc.CourseName,
		Credits:    oc.Credits,
		Semester:   string(oc.Semester),
		Year:       oc.Year,
	}
}

// Dashboard maneja GET /api/instructor/dashboard
func (c *Controller) Dashboard(w http.ResponseWriter, r *http.Request) {
	helpers.WriteMessage(w, http.StatusOK, "Instructor dashboard")
}

// OfferCourse maneja POST /api/instructor/offer-course
func (c *Controller) OfferCourse(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	var req dto.OfferCourseRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	oc, err := c.service.OfferCourse(r.Context(), ac.PrincipalID, svc.OfferInput{
		CourseID: req.CourseID,
		Semester: req.Semester,
		Year:     req.Year,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorController.OfferCourse", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, helpers.Message{Message: "Course offered successfully", ID: oc.ID})
}

// Courses maneja GET /api/instructor/courses
func (c *Controller) Courses(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	list, err := c.service.Courses(r.Context(), ac.PrincipalID)
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorController.Courses", err)
		return
	}
	resp := make([]dto.OfferedCourse, 0, len(list))
	for _, oc := range list {
		resp = append(resp, toOffered(oc))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// PostMarks maneja POST /api/instructor/post-marks
func (c *Controller) PostMarks(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	var req dto.PostMarksRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	m, err := c.service.PostMarks(r.Context(), ac.PrincipalID, svc.MarkInput{
		OfferedCourseID: req.OfferedCourseID,
		StudentID:       req.StudentID,
		ActivityType:    req.ActivityType,
		Marks:           req.Marks,
		TotalMarks:      req.TotalMarks,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorController.PostMarks", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, helpers.Message{Message: "Marks posted successfully", ID: m.ID})
}

// CourseStudents maneja GET /api/instructor/course-students/{offeredCourseId}
func (c *Controller) CourseStudents(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	ocID, aerr := helpers.IDParam(r, "offeredCourseId")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	list, err := c.service.CourseStudents(r.Context(), ac.PrincipalID, ocID)
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorController.CourseStudents", err)
		return
	}
	resp := make([]dto.EnrolledStudent, 0, len(list))
	for _, p := range list {
		resp = append(resp, dto.EnrolledStudent{ID: p.ID, StudentID: p.StudentID, Name: p.Name, Email: p.Email})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Stats maneja GET /api/instructor/stats
func (c *Controller) Stats(w http.ResponseWriter, r *http.Request) {
	ac, ok := mw.MustAuth(w, r)
	if !ok {
		return
	}
	st, err := c.service.Stats(r.Context(), ac.PrincipalID)
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorController.Stats", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.Stats{
		TotalStudents: st.TotalStudents,
		TotalCourses:  st.TotalCourses,
		AverageGrade:  st.AverageGrade,
	})
}
