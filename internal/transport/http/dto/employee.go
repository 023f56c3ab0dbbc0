package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"employee-api/internal/domain"
)

const dateLayout = "2006-01-02"

func init() {
	// field errors carry the JSON key, not the Go field name
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// EmployeeRequest is the POST/PUT body. Absent keys and JSON null both mean
// "not supplied". Length bounds follow the employees column sizes.
type EmployeeRequest struct {
	EmployeeID *string      `json:"employee_id" binding:"omitempty,max=50"`
	FirstName  *string      `json:"first_name"  binding:"omitempty,max=100"`
	LastName   *string      `json:"last_name"   binding:"omitempty,max=100"`
	Email      *string      `json:"email"       binding:"omitempty,max=255"`
	Phone      *string      `json:"phone"       binding:"omitempty,max=30"`
	Department *string      `json:"department"  binding:"omitempty,max=100"`
	Position   *string      `json:"position"    binding:"omitempty,max=100"`
	Salary     *FormDecimal `json:"salary"`
	HireDate   *string      `json:"hire_date"   binding:"omitempty,max=32"`
	Status     *string      `json:"status"      binding:"omitempty,max=16"`
}

// BindError converts a validator failure from ShouldBindJSON into a field
// validation error. Anything else (malformed JSON, bad salary) yields nil.
func BindError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return nil
	}
	fe := ves[0]
	if fe.Tag() == "max" {
		return domain.Validation(fe.Field(), fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	}
	return domain.Validation(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
}

// FormDecimal accepts a JSON number, a numeric string or "" (no value), which
// is what HTML number inputs produce.
type FormDecimal struct {
	decimal.NullDecimal
}

func (d *FormDecimal) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if string(raw) == "null" {
		d.Valid = false
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(raw), `"`))
	if s == "" {
		d.Valid = false
		return nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("salary: %q is not a number", s)
	}
	d.Decimal, d.Valid = v, true
	return nil
}

// ToInput converts the request body into the service input.
func (r *EmployeeRequest) ToInput() (domain.EmployeeInput, error) {
	in := domain.EmployeeInput{
		EmployeeID: r.EmployeeID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Department: r.Department,
		Position:   r.Position,
	}
	if r.Salary != nil {
		in.Salary = &r.Salary.NullDecimal
	}
	if r.HireDate != nil {
		d, err := ParseDate(*r.HireDate)
		if err != nil {
			return domain.EmployeeInput{}, domain.Validation("hire_date", err.Error())
		}
		in.HireDate = &d
	}
	if r.Status != nil && strings.TrimSpace(*r.Status) != "" {
		st := domain.Status(strings.ToLower(strings.TrimSpace(*r.Status)))
		in.Status = &st
	}
	return in, nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp; "" is an empty date.
func ParseDate(s string) (domain.NullDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NullDate{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return domain.NullDate{Time: t, Valid: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return domain.NullDate{Time: t, Valid: true}, nil
	}
	return domain.NullDate{}, fmt.Errorf("hire_date: %q is not a date (YYYY-MM-DD)", s)
}

// CreatedEmployee is the subset echoed back by POST /employees.
type CreatedEmployee struct {
	ID         uint64 `json:"id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

func NewCreatedEmployee(e *domain.Employee) CreatedEmployee {
	return CreatedEmployee{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
	}
}

var _ json.Unmarshaler = (*FormDecimal)(nil)
