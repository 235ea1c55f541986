// Package admin contiene los controllers de /api/admin.
package admin

import (
	"net/http"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	dto "github.com/dropDatabas3/ums/internal/http/dto/admin"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	svc "github.com/dropDatabas3/ums/internal/http/services/admin"
)

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Dashboard   *DashboardController
	Instructors *InstructorsController
	Students    *StudentsController
	Courses     *CoursesController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Dashboard:   NewDashboardController(s.Stats),
		Instructors: NewInstructorsController(s.Instructors),
		Students:    NewStudentsController(s.Students),
		Courses:     NewCoursesController(s.Courses),
	}
}

type DashboardController struct {
	stats svc.StatsService
}

func NewDashboardController(stats svc.StatsService) *DashboardController {
	return &DashboardController{stats: stats}
}

// Dashboard maneja GET /api/admin/dashboard
func (c *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
	helpers.WriteMessage(w, http.StatusOK, "Admin dashboard")
}

// Statistics maneja GET /api/admin/statistics
func (c *DashboardController) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := c.stats.Statistics(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, "DashboardController.Statistics", err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.Statistics{
		TotalStudents:    st.TotalStudents,
		TotalInstructors: st.TotalInstructors,
		TotalCourses:     st.TotalCourses,
	})
}

func toInstructor(p repository.Principal) dto.Instructor {
	return dto.Instructor{ID: p.ID, Name: p.Name, Email: p.Email, Department: p.Department, CreatedAt: p.CreatedAt}
}

func toStudent(p repository.Principal) dto.Student {
	return dto.Student{ID: p.ID, StudentID: p.StudentID, Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt}
}

func toCourse(c repository.Course) dto.Course {
	return dto.Course{ID: c.ID, Code: c.Code, Name: c.Name, Credits: c.Credits, Department: c.Department, CreatedAt: c.CreatedAt}
}
