package employee

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"employee-api/internal/domain"
)

type EmployeeModel struct {
	ID         uint64              `gorm:"primaryKey;autoIncrement"`
	EmployeeID string              `gorm:"uniqueIndex:uk_employees_employee_id;size:50;not null"`
	FirstName  string              `gorm:"size:100;not null"`
	LastName   string              `gorm:"size:100;not null"`
	Email      string              `gorm:"uniqueIndex:uk_employees_email;size:255;not null"`
	Phone      string              `gorm:"size:30;not null;default:''"`
	Department string              `gorm:"size:100;not null;default:''"`
	Position   string              `gorm:"size:100;not null;default:''"`
	Salary     decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	HireDate   *time.Time          `gorm:"type:date"`
	Status     string              `gorm:"size:16;not null;default:active"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (EmployeeModel) TableName() string { return "employees" }

// AutoMigrate creates or alters the employees table to match EmployeeModel.
func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(&EmployeeModel{}) }

func FromDomain(e *domain.Employee) *EmployeeModel {
	m := &EmployeeModel{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		Status:     string(e.Status),
		CreatedAt:  e.CreatedAt,
	}
	if e.HireDate != nil {
		d := domain.DateOnly(*e.HireDate)
		m.HireDate = &d
	}
	return m
}

func (m *EmployeeModel) ToDomain() domain.Employee {
	e := domain.Employee{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Phone:      m.Phone,
		Department: m.Department,
		Position:   m.Position,
		Salary:     m.Salary,
		Status:     domain.Status(m.Status),
		CreatedAt:  m.CreatedAt,
	}
	if m.HireDate != nil {
		// drivers hand DATE columns back in the session time zone
		d := time.Date(m.HireDate.Year(), m.HireDate.Month(), m.HireDate.Day(), 0, 0, 0, 0, time.UTC)
		e.HireDate = &d
	}
	return e
}

// Columns maps the mutable fields of e to column values for a full-row UPDATE.
func Columns(e *domain.Employee) map[string]any {
	m := FromDomain(e)
	return map[string]any{
		"employee_id": m.EmployeeID,
		"first_name":  m.FirstName,
		"last_name":   m.LastName,
		"email":       m.Email,
		"phone":       m.Phone,
		"department":  m.Department,
		"position":    m.Position,
		"salary":      m.Salary,
		"hire_date":   m.HireDate,
		"status":      m.Status,
	}
}
