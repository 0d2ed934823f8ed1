package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestCatalogEndpointsRoleGates(t *testing.T) {
	a := setupTestApp(t)

	a.register(t, "teach", "teacher")
	a.register(t, "student", "student")
	teacherToken := a.login(t, "teach")
	studentToken := a.login(t, "student")

	// The catalog listing is public.
	resp := a.request(t, fiber.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Mutations require the teacher role.
	payload := map[string]interface{}{"title": "Algebra", "description": "Numbers and letters"}

	resp = a.request(t, fiber.MethodPost, "/api/v1/courses", "", payload)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = a.request(t, fiber.MethodPost, "/api/v1/courses", studentToken, payload)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = a.request(t, fiber.MethodPost, "/api/v1/courses", teacherToken, payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.NotZero(t, created.Data.ID)

	// Duplicate course titles conflict.
	resp = a.request(t, fiber.MethodPost, "/api/v1/courses", teacherToken, payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCatalogEndpointsTopicAndQuestionFlow(t *testing.T) {
	a := setupTestApp(t)

	a.register(t, "teach", "teacher")
	a.register(t, "student", "student")
	teacherToken := a.login(t, "teach")
	studentToken := a.login(t, "student")

	resp := a.request(t, fiber.MethodPost, "/api/v1/courses", teacherToken, map[string]interface{}{"title": "Algebra"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var course struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &course)

	resp = a.request(t, fiber.MethodPost, requestPath("/api/v1/courses/%d/topics", course.Data.ID), teacherToken, map[string]interface{}{"title": "Linear Equations"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var topic struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &topic)

	resp = a.request(t, fiber.MethodPost, requestPath("/api/v1/topics/%d/questions", topic.Data.ID), teacherToken, map[string]interface{}{
		"question":       "What is 2+2?",
		"option_a":       "3",
		"option_b":       "4",
		"option_c":       "5",
		"option_d":       "6",
		"correct_answer": "b",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Students see the question without the correct answer.
	resp = a.request(t, fiber.MethodGet, requestPath("/api/v1/topics/%d/questions", topic.Data.ID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var questions struct {
		Data []struct {
			ID            uint   `json:"id"`
			CorrectAnswer string `json:"correct_answer"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &questions)
	require.Len(t, questions.Data, 1)
	require.Empty(t, questions.Data[0].CorrectAnswer)

	// Drill-down reads require a session.
	resp = a.request(t, fiber.MethodGet, requestPath("/api/v1/topics/%d/questions", topic.Data.ID), "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestEnrollmentAndSubmissionEndpoints(t *testing.T) {
	a := setupTestApp(t)

	a.register(t, "teach", "teacher")
	a.register(t, "student", "student")
	teacherToken := a.login(t, "teach")
	studentToken := a.login(t, "student")

	resp := a.request(t, fiber.MethodPost, "/api/v1/courses", teacherToken, map[string]interface{}{"title": "Algebra"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var course struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &course)

	resp = a.request(t, fiber.MethodPost, requestPath("/api/v1/courses/%d/topics", course.Data.ID), teacherToken, map[string]interface{}{"title": "Linear Equations"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var topic struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &topic)

	resp = a.request(t, fiber.MethodPost, requestPath("/api/v1/topics/%d/questions", topic.Data.ID), teacherToken, map[string]interface{}{
		"question":       "What is 2+2?",
		"option_a":       "3",
		"option_b":       "4",
		"option_c":       "5",
		"option_d":       "6",
		"correct_answer": "b",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var question struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &question)

	// Teachers cannot use the student surface.
	resp = a.request(t, fiber.MethodPost, "/api/v1/enrollments", teacherToken, map[string]interface{}{"course_id": course.Data.ID})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = a.request(t, fiber.MethodPost, "/api/v1/enrollments", studentToken, map[string]interface{}{"course_id": course.Data.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Enrolling twice conflicts.
	resp = a.request(t, fiber.MethodPost, "/api/v1/enrollments", studentToken, map[string]interface{}{"course_id": course.Data.ID})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = a.request(t, fiber.MethodPost, "/api/v1/submissions", studentToken, map[string]interface{}{
		"question_id":     question.Data.ID,
		"selected_answer": "b",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var submission struct {
		Data struct {
			IsCorrect bool `json:"is_correct"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &submission)
	require.True(t, submission.Data.IsCorrect)

	// The student dashboard reflects the activity.
	resp = a.request(t, fiber.MethodGet, "/api/v1/dashboard/student", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var dashboard struct {
		Data struct {
			AnswersSubmitted int `json:"answers_submitted"`
			AnswersCorrect   int `json:"answers_correct"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &dashboard)
	require.Equal(t, 1, dashboard.Data.AnswersSubmitted)
	require.Equal(t, 1, dashboard.Data.AnswersCorrect)
}

func TestAdminEndpointsRequireAdminFlag(t *testing.T) {
	a := setupTestApp(t)

	a.register(t, "teach", "teacher")
	teacherToken := a.login(t, "teach")

	resp := a.request(t, fiber.MethodGet, "/api/v1/admin/users", teacherToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Promote directly in storage, then log in again for a fresh token.
	require.NoError(t, a.db.Exec("UPDATE users SET is_admin = true WHERE username = ?", "teach").Error)
	adminToken := a.login(t, "teach")

	resp = a.request(t, fiber.MethodGet, "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
