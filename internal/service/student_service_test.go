package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-timetable-api/internal/models"
	appErrors "github.com/noah-isme/academy-timetable-api/pkg/errors"
)

type mockStudentRepo struct {
	items  map[int64]*models.Student
	nextID int64
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.items {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, s := range m.items {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Student)
	}
	m.nextID++
	student.ID = m.nextID
	cp := *student
	m.items[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	student, err := svc.Create(context.Background(), CreateStudentRequest{Name: "이동현"})
	require.NoError(t, err)
	assert.NotZero(t, student.ID)
	assert.Equal(t, "이동현", student.Name)
}

func TestStudentServiceCreateDuplicateName(t *testing.T) {
	repo := &mockStudentRepo{items: map[int64]*models.Student{
		1: {ID: 1, Name: "이동현"},
	}}
	svc := NewStudentService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "이동현"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateName.Code, appErr.Code)
}

func TestStudentServiceCreateRejectsEmptyName(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateStudentRequest{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.Status)
}
