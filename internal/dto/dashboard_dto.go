package dto

// StudentDashboardResponse aggregates a student's view of their courses.
type StudentDashboardResponse struct {
	FullName         string               `json:"full_name"`
	EnrolledCourses  []EnrollmentResponse `json:"enrolled_courses"`
	AvailableCourses int64                `json:"available_courses"`
	AnswersSubmitted int                  `json:"answers_submitted"`
	AnswersCorrect   int                  `json:"answers_correct"`
}

// TeacherDashboardResponse aggregates a teacher's view of their catalog.
type TeacherDashboardResponse struct {
	FullName       string           `json:"full_name"`
	MyCourses      []CourseResponse `json:"my_courses"`
	TotalStudents  int64            `json:"total_students"`
	TotalQuestions int64            `json:"total_questions"`
}

// SiteStatsResponse carries the public landing-page counters. Counts degrade
// to zero when the storage layer is unavailable.
type SiteStatsResponse struct {
	Courses int64 `json:"courses"`
	Topics  int64 `json:"topics"`
	Users   int64 `json:"users"`
}
