package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

func enrollmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t, &models.User{}, &models.Course{}, &models.Topic{}, &models.Question{}, &models.Enrollment{})
}

func seedCourse(t *testing.T, db *gorm.DB, title string, teacherID uint) models.Course {
	t.Helper()
	course := models.Course{Title: title, Description: "about " + title, TeacherID: &teacherID}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestEnrollmentRepositoryRejectsDuplicatePair(t *testing.T) {
	db := enrollmentTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teach", models.RoleTeacher)
	student := seedUser(t, db, "student", models.RoleStudent)
	course := seedCourse(t, db, "Algebra", teacher.ID)

	first := models.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.NoError(t, repo.Create(ctx, &first))

	second := models.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.ErrorIs(t, repo.Create(ctx, &second), gorm.ErrDuplicatedKey)

	// The same student may enroll in a different course.
	other := seedCourse(t, db, "Geometry", teacher.ID)
	third := models.Enrollment{StudentID: student.ID, CourseID: other.ID}
	require.NoError(t, repo.Create(ctx, &third))
}

func TestEnrollmentRepositoryListByStudentPreloadsCourse(t *testing.T) {
	db := enrollmentTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teach", models.RoleTeacher)
	student := seedUser(t, db, "student", models.RoleStudent)
	course := seedCourse(t, db, "Algebra", teacher.ID)

	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: student.ID, CourseID: course.ID}))

	enrollments, err := repo.ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.NotNil(t, enrollments[0].Course)
	require.Equal(t, "Algebra", enrollments[0].Course.Title)
	require.NotNil(t, enrollments[0].Course.Teacher)
	require.Equal(t, "teach", enrollments[0].Course.Teacher.Username)
}

func TestEnrollmentRepositoryUpdateProgress(t *testing.T) {
	db := enrollmentTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teach", models.RoleTeacher)
	student := seedUser(t, db, "student", models.RoleStudent)
	course := seedCourse(t, db, "Algebra", teacher.ID)

	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: student.ID, CourseID: course.ID}))

	require.NoError(t, repo.UpdateProgress(ctx, student.ID, course.ID, 60))

	stored, err := repo.GetByStudentAndCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, 60, stored.Progress)

	require.ErrorIs(t, repo.UpdateProgress(ctx, student.ID, 999, 10), gorm.ErrRecordNotFound)
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db := enrollmentTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teach", models.RoleTeacher)
	student := seedUser(t, db, "student", models.RoleStudent)
	course := seedCourse(t, db, "Algebra", teacher.ID)

	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: student.ID, CourseID: course.ID}))
	require.NoError(t, repo.Delete(ctx, student.ID, course.ID))
	require.ErrorIs(t, repo.Delete(ctx, student.ID, course.ID), gorm.ErrRecordNotFound)

	// Re-enrollment after leaving must succeed.
	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: student.ID, CourseID: course.ID}))
}

func TestEnrollmentRepositoryCounts(t *testing.T) {
	db := enrollmentTestDB(t)
	repo := NewEnrollmentRepository(db)
	ctx := context.Background()

	teacher := seedUser(t, db, "teach", models.RoleTeacher)
	alice := seedUser(t, db, "alice", models.RoleStudent)
	bob := seedUser(t, db, "bob", models.RoleStudent)
	algebra := seedCourse(t, db, "Algebra", teacher.ID)
	geometry := seedCourse(t, db, "Geometry", teacher.ID)

	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: alice.ID, CourseID: algebra.ID}))
	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: alice.ID, CourseID: geometry.ID}))
	require.NoError(t, repo.Create(ctx, &models.Enrollment{StudentID: bob.ID, CourseID: algebra.ID}))

	byCourse, err := repo.CountByCourse(ctx, algebra.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), byCourse)

	byStudent, err := repo.CountByStudent(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), byStudent)

	distinct, err := repo.CountDistinctStudentsByTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), distinct)

	available, err := repo.CountAvailableCourses(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), available)

	availableAlice, err := repo.CountAvailableCourses(ctx, alice.ID)
	require.NoError(t, err)
	require.Zero(t, availableAlice)
}
