package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-api/internal/domain"
)

type fakeStore struct {
	rows      map[uint64]domain.Employee
	seq       uint64
	creates   int
	updates   int
	lastTerm  string
	listErr   error
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uint64]domain.Employee)}
}

func (s *fakeStore) List(_ context.Context) ([]domain.Employee, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Employee, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeStore) FindByID(_ context.Context, id uint64) (*domain.Employee, error) {
	e, ok := s.rows[id]
	if !ok {
		return nil, domain.NotFound("Employee not found")
	}
	return &e, nil
}

func (s *fakeStore) Search(_ context.Context, term string) ([]domain.Employee, error) {
	s.lastTerm = term
	var out []domain.Employee
	for _, e := range s.rows {
		if strings.Contains(strings.ToLower(e.FirstName), strings.ToLower(term)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, existing := range s.rows {
		if existing.EmployeeID == e.EmployeeID {
			return nil, domain.Conflict("employee_id", "Employee ID or Email already exists", nil)
		}
	}
	s.seq++
	c := *e
	c.ID = s.seq
	s.rows[c.ID] = c
	return &c, nil
}

func (s *fakeStore) Update(_ context.Context, id uint64, in domain.EmployeeInput) (*domain.Employee, error) {
	s.updates++
	e, ok := s.rows[id]
	if !ok {
		return nil, domain.NotFound("Employee not found")
	}
	in.Apply(&e)
	s.rows[id] = e
	return &e, nil
}

func (s *fakeStore) Delete(_ context.Context, id uint64) error {
	if _, ok := s.rows[id]; !ok {
		return domain.NotFound("Employee not found")
	}
	delete(s.rows, id)
	return nil
}

func ptr[T any](v T) *T { return &v }

func validInput() domain.EmployeeInput {
	return domain.EmployeeInput{
		EmployeeID: ptr("EMP001"),
		FirstName:  ptr("Ann"),
		LastName:   ptr("Lee"),
		Email:      ptr("ann@x.com"),
	}
}

func TestCreateEmployee_DefaultsStatusToActive(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)

	e, err := svc.CreateEmployee(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), e.ID)
	assert.Equal(t, domain.StatusActive, e.Status)
	assert.Equal(t, "Ann", e.FirstName)
}

func TestCreateEmployee_TrimsUniqueKeys(t *testing.T) {
	svc := NewEmployeeService(newFakeStore())
	in := validInput()
	in.EmployeeID = ptr("  EMP009 ")
	in.Email = ptr(" ann@x.com\t")

	e, err := svc.CreateEmployee(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "EMP009", e.EmployeeID)
	assert.Equal(t, "ann@x.com", e.Email)
}

func TestCreateEmployee_RequiredFields(t *testing.T) {
	cases := map[string]func(in *domain.EmployeeInput){
		"missing employee_id": func(in *domain.EmployeeInput) { in.EmployeeID = nil },
		"missing first_name":  func(in *domain.EmployeeInput) { in.FirstName = nil },
		"blank last_name":     func(in *domain.EmployeeInput) { in.LastName = ptr("") },
		"whitespace email":    func(in *domain.EmployeeInput) { in.Email = ptr("   ") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewEmployeeService(store)
			in := validInput()
			mutate(&in)

			_, err := svc.CreateEmployee(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, MsgRequiredFields, err.Error())
			assert.Zero(t, store.creates, "store must not be called")
		})
	}
}

func TestCreateEmployee_DomainRules(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		in := validInput()
		in.Status = ptr(domain.Status("retired"))
		_, err := NewEmployeeService(newFakeStore()).CreateEmployee(context.Background(), in)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.KindValidation, de.Kind)
		assert.Equal(t, "status", de.Field)
		assert.Equal(t, MsgInvalidStatus, de.Msg)
	})
	t.Run("negative salary", func(t *testing.T) {
		in := validInput()
		in.Salary = &decimal.NullDecimal{Decimal: decimal.NewFromInt(-1), Valid: true}
		_, err := NewEmployeeService(newFakeStore()).CreateEmployee(context.Background(), in)
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "salary", de.Field)
		assert.Equal(t, MsgNegativeSalary, de.Msg)
	})
	t.Run("salary beyond decimal(12,2)", func(t *testing.T) {
		for _, v := range []string{"10000000000", "1e12", "9999999999.995"} {
			store := newFakeStore()
			in := validInput()
			in.Salary = &decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
			_, err := NewEmployeeService(store).CreateEmployee(context.Background(), in)
			var de *domain.Error
			require.ErrorAs(t, err, &de, v)
			assert.Equal(t, "salary", de.Field)
			assert.Equal(t, MsgSalaryTooLarge, de.Msg)
			assert.Zero(t, store.creates)
		}
	})
	t.Run("largest storable salary", func(t *testing.T) {
		in := validInput()
		in.Salary = &decimal.NullDecimal{Decimal: decimal.RequireFromString("9999999999.99"), Valid: true}
		_, err := NewEmployeeService(newFakeStore()).CreateEmployee(context.Background(), in)
		require.NoError(t, err)
	})
	t.Run("explicit inactive is kept", func(t *testing.T) {
		in := validInput()
		in.Status = ptr(domain.StatusInactive)
		e, err := NewEmployeeService(newFakeStore()).CreateEmployee(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInactive, e.Status)
	})
}

func TestCreateEmployee_PassesConflictThrough(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)
	_, err := svc.CreateEmployee(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), validInput())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateEmployee_StorageError(t *testing.T) {
	store := newFakeStore()
	store.createErr = domain.Storage("create employee", errors.New("connection reset"))
	_, err := NewEmployeeService(store).CreateEmployee(context.Background(), validInput())
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
}

func TestUpdateEmployee_DoesNotRequireFields(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)
	e, err := svc.CreateEmployee(context.Background(), validInput())
	require.NoError(t, err)

	// blank first_name is accepted on update
	updated, err := svc.UpdateEmployee(context.Background(), e.ID, domain.EmployeeInput{
		FirstName: ptr(""),
		Status:    ptr(domain.StatusInactive),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.FirstName)
	assert.Equal(t, domain.StatusInactive, updated.Status)
	assert.Equal(t, "Lee", updated.LastName)
}

func TestUpdateEmployee_DomainRules(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)

	_, err := svc.UpdateEmployee(context.Background(), 1, domain.EmployeeInput{Status: ptr(domain.Status("ACTIVE"))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateEmployee(context.Background(), 1, domain.EmployeeInput{
		Salary: &decimal.NullDecimal{Decimal: decimal.RequireFromString("-0.01"), Valid: true},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, store.updates)
}

func TestUpdateEmployee_TrimsUniqueKeys(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)
	e, err := svc.CreateEmployee(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateEmployee(context.Background(), e.ID, domain.EmployeeInput{
		EmployeeID: ptr(" EMP777 "),
		Email:      ptr("\tnew@x.com "),
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP777", updated.EmployeeID)
	assert.Equal(t, "new@x.com", updated.Email)
}

func TestUpdateEmployee_SalaryTooLarge(t *testing.T) {
	store := newFakeStore()
	_, err := NewEmployeeService(store).UpdateEmployee(context.Background(), 1, domain.EmployeeInput{
		Salary: &decimal.NullDecimal{Decimal: decimal.New(1, 12), Valid: true},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, store.updates)
}

func TestUpdateEmployee_Missing(t *testing.T) {
	_, err := NewEmployeeService(newFakeStore()).UpdateEmployee(context.Background(), 7, domain.EmployeeInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchEmployees(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)
	_, err := svc.CreateEmployee(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.SearchEmployees(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, MsgSearchQuery, err.Error())

	list, err := svc.SearchEmployees(context.Background(), "an")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "an", store.lastTerm)
}

func TestGetAndDeleteEmployee(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)
	ctx := context.Background()
	e, err := svc.CreateEmployee(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", got.EmployeeID)

	require.NoError(t, svc.DeleteEmployee(ctx, e.ID))
	_, err = svc.GetEmployee(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, e.ID), domain.ErrNotFound)
}

func TestListEmployees(t *testing.T) {
	store := newFakeStore()
	svc := NewEmployeeService(store)
	ctx := context.Background()
	for _, id := range []string{"E1", "E2"} {
		in := validInput()
		in.EmployeeID = ptr(id)
		_, err := svc.CreateEmployee(ctx, in)
		require.NoError(t, err)
	}

	list, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "E2", list[0].EmployeeID)

	store.listErr = errors.New("boom")
	_, err = svc.ListEmployees(ctx)
	assert.Error(t, err)
}
