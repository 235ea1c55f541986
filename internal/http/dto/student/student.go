// Package student contiene los DTOs de /api/student.
package student

type RegisterCourseRequest struct {
	OfferedCourseID int64 `json:"offeredCourseId"`
}

type AvailableCourse struct {
	OfferedCourseID int64  `json:"offered_course_id"`
	CourseCode      string `json:"course_code"`
	CourseName      string `json:"course_name"`
	Credits         int    `json:"credits"`
	InstructorName  string `json:"instructor_name"`
	Semester        string `json:"semester"`
	Year            int    `json:"year"`
}

type MyCourse struct {
	OfferedCourseID int64  `json:"offered_course_id"`
	CourseCode      string `json:"course_code"`
	CourseName      string `json:"course_name"`
	InstructorName  string `json:"instructor_name"`
	Semester        string `json:"semester"`
	Year            int    `json:"year"`
}

type Mark struct {
	ActivityType string  `json:"activity_type"`
	Marks        float64 `json:"marks"`
	TotalMarks   float64 `json:"total_marks"`
}
