// Package admin contiene los DTOs de /api/admin.
package admin

import "time"

type InstructorRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	// Password es opcional al crear; vacío genera una inicial.
	Password string `json:"password,omitempty"`
}

type StudentRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	StudentID string `json:"studentId"`
	Password  string `json:"password,omitempty"`
}

type CourseRequest struct {
	Code       string `json:"course_code"`
	Name       string `json:"course_name"`
	Credits    int    `json:"credits"`
	Department string `json:"department"`
}

// CreatedResponse responde los POST. InitialPassword solo aparece cuando el
// server la generó y no se vuelve a mostrar.
type CreatedResponse struct {
	Message         string `json:"message"`
	ID              int64  `json:"id"`
	InitialPassword string `json:"initialPassword,omitempty"`
}

type Instructor struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

type Student struct {
	ID        int64     `json:"id"`
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Course struct {
	ID         int64     `json:"id"`
	Code       string    `json:"course_code"`
	Name       string    `json:"course_name"`
	Credits    int       `json:"credits"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

type Statistics struct {
	TotalStudents    int64 `json:"totalStudents"`
	TotalInstructors int64 `json:"totalInstructors"`
	TotalCourses     int64 `json:"totalCourses"`
}
