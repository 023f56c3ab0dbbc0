package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"employee-api/internal/domain"
)

const (
	MsgRequiredFields = "Please provide all required fields: employee_id, first_name, last_name, email"
	MsgSearchQuery    = "Please provide a search query"
	MsgInvalidStatus  = "Status must be one of: active, inactive"
	MsgNegativeSalary = "Salary must not be negative"
	MsgSalaryTooLarge = "Salary must be below 10000000000"
)

// salaryLimit is the first value a decimal(12,2) column cannot hold.
var salaryLimit = decimal.New(1, 10)

type EmployeeService struct {
	store domain.EmployeeStore
}

func NewEmployeeService(store domain.EmployeeStore) *EmployeeService {
	return &EmployeeService{store: store}
}

func (s *EmployeeService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.store.List(ctx)
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id uint64) (*domain.Employee, error) {
	return s.store.FindByID(ctx, id)
}

func (s *EmployeeService) SearchEmployees(ctx context.Context, query string) ([]domain.Employee, error) {
	if query == "" {
		return nil, domain.Validation("query", MsgSearchQuery)
	}
	return s.store.Search(ctx, query)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	for _, f := range []*string{in.EmployeeID, in.FirstName, in.LastName, in.Email} {
		if f == nil || strings.TrimSpace(*f) == "" {
			return nil, domain.Validation("", MsgRequiredFields)
		}
	}
	if err := validateDomainRules(in); err != nil {
		return nil, err
	}

	e := &domain.Employee{Status: domain.StatusActive}
	trimKeys(&in).Apply(e)
	return s.store.Create(ctx, e)
}

// UpdateEmployee does not re-check required-field presence; create does.
// Status and salary still have to be in their column domains.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, in domain.EmployeeInput) (*domain.Employee, error) {
	if err := validateDomainRules(in); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, *trimKeys(&in))
}

// trimKeys strips whitespace from the two unique columns.
func trimKeys(in *domain.EmployeeInput) *domain.EmployeeInput {
	for _, p := range []**string{&in.EmployeeID, &in.Email} {
		if *p != nil {
			v := strings.TrimSpace(**p)
			*p = &v
		}
	}
	return in
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	return s.store.Delete(ctx, id)
}

func validateDomainRules(in domain.EmployeeInput) error {
	if in.Status != nil && !in.Status.Valid() {
		return domain.Validation("status", MsgInvalidStatus)
	}
	if in.Salary != nil && in.Salary.Valid {
		if in.Salary.Decimal.IsNegative() {
			return domain.Validation("salary", MsgNegativeSalary)
		}
		if in.Salary.Decimal.Round(2).GreaterThanOrEqual(salaryLimit) {
			return domain.Validation("salary", MsgSalaryTooLarge)
		}
	}
	return nil
}
