package admin

import (
	"net/http"

	dto "github.com/dropDatabas3/ums/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/ums/internal/http/errors"
	"github.com/dropDatabas3/ums/internal/http/helpers"
	svc "github.com/dropDatabas3/ums/internal/http/services/admin"
)

// InstructorsController maneja /api/admin/instructors
type InstructorsController struct {
	service svc.InstructorService
}

func NewInstructorsController(service svc.InstructorService) *InstructorsController {
	return &InstructorsController{service: service}
}

func toInstructorInput(req dto.InstructorRequest) svc.InstructorInput {
	return svc.InstructorInput{
		AccountInput: svc.AccountInput{Name: req.Name, Email: req.Email, Password: req.Password},
		Department:   req.Department,
	}
}

// List maneja GET /api/admin/instructors
func (c *InstructorsController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.service.List(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorsController.List", err)
		return
	}
	resp := make([]dto.Instructor, 0, len(list))
	for _, p := range list {
		resp = append(resp, toInstructor(p))
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// Create maneja POST /api/admin/instructors
func (c *InstructorsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.InstructorRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	created, err := c.service.Create(r.Context(), toInstructorInput(req))
	if err != nil {
		helpers.WriteServiceError(w, r, "InstructorsController.Create", err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.CreatedResponse{
		Message:         "Instructor created successfully",
		ID:              created.ID,
		InitialPassword: created.InitialPassword,
	})
}

// Update maneja PUT /api/admin/instructors/{id}
func (c *InstructorsController) Update(w http.ResponseWriter, r *http.Request) {
	id, aerr := helpers.IDParam(r, "id")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	var req dto.InstructorRequest
	if aerr := helpers.ReadJSON(w, r, &req); aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	if err := c.service.Update(r.Context(), id, toInstructorInput(req)); err != nil {
		helpers.WriteServiceError(w, r, "InstructorsController.Update", err)
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Instructor updated successfully")
}

// Delete maneja DELETE /api/admin/instructors/{id}
func (c *InstructorsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, aerr := helpers.IDParam(r, "id")
	if aerr != nil {
		httperrors.WriteError(w, aerr)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, "InstructorsController.Delete", err)
		return
	}
	helpers.WriteMessage(w, http.StatusOK, "Instructor deleted successfully")
}
