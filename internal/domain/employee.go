package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

type Employee struct {
	ID         uint64              `json:"id"`
	EmployeeID string              `json:"employee_id"`
	FirstName  string              `json:"first_name"`
	LastName   string              `json:"last_name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Department string              `json:"department"`
	Position   string              `json:"position"`
	Salary     decimal.NullDecimal `json:"salary"`
	HireDate   *time.Time          `json:"hire_date"`
	Status     Status              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// EmployeeInput carries caller-supplied fields. A nil pointer means the field
// was not supplied.
type EmployeeInput struct {
	EmployeeID *string
	FirstName  *string
	LastName   *string
	Email      *string
	Phone      *string
	Department *string
	Position   *string
	Salary     *decimal.NullDecimal
	HireDate   *NullDate
	Status     *Status
}

// NullDate is a calendar date that may be explicitly empty.
type NullDate struct {
	Time  time.Time
	Valid bool
}

// Apply copies every supplied field onto e. id and created_at are never touched.
func (in EmployeeInput) Apply(e *Employee) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&e.EmployeeID, in.EmployeeID)
	setString(&e.FirstName, in.FirstName)
	setString(&e.LastName, in.LastName)
	setString(&e.Email, in.Email)
	setString(&e.Phone, in.Phone)
	setString(&e.Department, in.Department)
	setString(&e.Position, in.Position)
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.HireDate != nil {
		if in.HireDate.Valid {
			d := DateOnly(in.HireDate.Time)
			e.HireDate = &d
		} else {
			e.HireDate = nil
		}
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EmployeeStore owns the employees table and is the sole authority on
// existence and uniqueness.
type EmployeeStore interface {
	List(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id uint64) (*Employee, error)
	Search(ctx context.Context, term string) ([]Employee, error)
	Create(ctx context.Context, e *Employee) (*Employee, error)
	Update(ctx context.Context, id uint64, in EmployeeInput) (*Employee, error)
	Delete(ctx context.Context, id uint64) error
}
