package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"employee-api/internal/domain"
	"employee-api/internal/feature/employee"
)

const (
	mysqlDupEntry        = 1062
	pgUniqueViolation    = "23505"
	likeEscape           = "!"
	msgEmployeeNotFound  = "Employee not found"
	msgDuplicateEmployee = "Employee ID or Email already exists"
)

// searchColumns are OR-ed together by Search.
var searchColumns = []string{"first_name", "last_name", "email", "department", "position", "employee_id"}

type EmployeeRepo struct{ db *gorm.DB }

func NewEmployeeRepo(db *gorm.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

var _ domain.EmployeeStore = (*EmployeeRepo)(nil)

func (r *EmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	var rows []employee.EmployeeModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, domain.Storage("list employees", err)
	}
	return toDomainList(rows), nil
}

func (r *EmployeeRepo) FindByID(ctx context.Context, id uint64) (*domain.Employee, error) {
	var m employee.EmployeeModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound(msgEmployeeNotFound)
	}
	if err != nil {
		return nil, domain.Storage("find employee", err)
	}
	e := m.ToDomain()
	return &e, nil
}

func (r *EmployeeRepo) Search(ctx context.Context, term string) ([]domain.Employee, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	conds := make([]string, 0, len(searchColumns))
	args := make([]any, 0, len(searchColumns))
	for _, col := range searchColumns {
		conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, pattern)
	}

	var rows []employee.EmployeeModel
	err := r.db.WithContext(ctx).
		Where(strings.Join(conds, " OR "), args...).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, domain.Storage("search employees", err)
	}
	return toDomainList(rows), nil
}

func (r *EmployeeRepo) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	m := employee.FromDomain(e)
	m.ID = 0
	m.CreatedAt = time.Time{}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translateWriteError("create employee", err)
	}
	out := m.ToDomain()
	return &out, nil
}

// Update loads the row first so a missing id is reported as not found rather
// than inferred from the affected-row count (MySQL reports 0 for no-op updates).
func (r *EmployeeRepo) Update(ctx context.Context, id uint64, in domain.EmployeeInput) (*domain.Employee, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(existing)

	err = r.db.WithContext(ctx).
		Model(&employee.EmployeeModel{}).
		Where("id = ?", id).
		Updates(employee.Columns(existing)).Error
	if err != nil {
		return nil, translateWriteError("update employee", err)
	}
	return existing, nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&employee.EmployeeModel{}).Error; err != nil {
		return domain.Storage("delete employee", err)
	}
	return nil
}

func toDomainList(rows []employee.EmployeeModel) []domain.Employee {
	out := make([]domain.Employee, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

func translateWriteError(op string, err error) error {
	if field, ok := duplicateField(err); ok {
		return domain.Conflict(field, msgDuplicateEmployee, err)
	}
	return domain.Storage(op, err)
}

// duplicateField reports whether err is a unique violation and which unique
// column it hit.
func duplicateField(err error) (string, bool) {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != mysqlDupEntry {
			return "", false
		}
		return fieldFromConstraint(mysqlKeyName(myErr.Message)), true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		return fieldFromConstraint(pgErr.ConstraintName), true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDupKey(err) {
		return fieldFromConstraint(err.Error()), true
	}
	return "", false
}

// isDupKey is the message-based fallback for drivers without typed errors (sqlite).
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

// mysqlKeyName returns the index name from "Duplicate entry 'v' for key 'k'".
// The entry value is skipped since it can contain any column name.
func mysqlKeyName(msg string) string {
	const marker = "for key '"
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	return strings.TrimSuffix(msg[i+len(marker):], "'")
}

func fieldFromConstraint(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "employee_id"):
		return "employee_id"
	case strings.Contains(s, "email"):
		return "email"
	default:
		return ""
	}
}
