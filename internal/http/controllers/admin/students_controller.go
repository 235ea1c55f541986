package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/ums/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	svc "github.com/dropDatabas3/ums/internal/http/services/admin"
)

// StudentsController maneja /api/admin/students
type StudentsController struct {
	service svc.StudentService
}

func NewStudentsController(service svc.StudentService) *StudentsController {
	return &StudentsController{service: service}
}

func toStudentInput(req dto.StudentRequest) svc.StudentInput {
	return svc.StudentInput{
		AccountInput: svc.AccountInput{Name: req.Name, Email: req.Email, Password: req.Password},
		StudentID:    req.StudentID,
	}
}

// List maneja GET /api/admin/students
func (c *StudentsController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, "StudentsController.List", err)
		return
	}
	resp := make([]dto.Student, 0, len(list))
	for _, p := range list {
		resp = append(resp, toStudent(p))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Create maneja POST /api/admin/students
func (c *StudentsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.StudentRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	created, err := c.service.Create(r.Context(), toStudentInput(req))
	if err != nil {
		helpers.WriteServiceError(w, r, "StudentsController.Create", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.CreatedResponse{
		Message:         "Student created successfully",
		ID:              created.ID,
		InitialPassword: created.InitialPassword,
	})
}

// Update maneja PUT /api/admin/students/{id}
func (c *StudentsController) Update(w http.ResponseWriter, r *http.Request) {
	id, aerr := helpers.IDParam(r, "id")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	var req dto.StudentRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	if err := c.service.Update(r.Context(), id, toStudentInput(req)); err != nil {
		helpers.WriteServiceError(w, r, "StudentsController.Update", err)
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Student updated successfully")
}

// Delete maneja DELETE /api/admin/students/{id}
func (c *StudentsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, aerr := helpers.IDParam(r, "id")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, "StudentsController.Delete", err)
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Student deleted successfully")
}
