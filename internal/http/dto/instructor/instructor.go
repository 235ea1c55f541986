// Package instructor contiene los DTOs de /api/instructor.
package instructor

type OfferCourseRequest struct {
	CourseID int64  `json:"courseId"`
	Semester string `json:"semester"`
	Year     int    `json:"year"`
}

type PostMarksRequest struct {
	OfferedCourseID int64    `json:"offeredCourseId"`
	StudentID       int64    `json:"studentId"`
	ActivityType    string   `json:"activityType"`
	Marks           *float64 `json:"marks"`
	TotalMarks      *float64 `json:"totalMarks"`
}

type OfferedCourse struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"course_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Credits    int    `json:"credits"`
	Semester   string `json:"semester"`
	Year       int    `json:"year"`
}

type EnrolledStudent struct {
	ID        int64  `json:"id"`
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

type Stats struct {
	TotalStudents int64   `json:"totalStudents"`
	TotalCourses  int64   `json:"totalCourses"`
	AverageGrade  float64 `json:"averageGrade"`
}
