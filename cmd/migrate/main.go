package main

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"employee-api/internal/core/config"
	"employee-api/internal/core/database"
	"employee-api/internal/core/logger"
	"employee-api/internal/domain"
	"employee-api/internal/feature/employee"
	"employee-api/internal/repo"
	"employee-api/internal/service"
)

type migrateOptions struct {
	ConfigPath  string
	Seed        int
	Concurrency int
}

var mopts migrateOptions

var rootCmd = &cobra.Command{
	Use:   "migrate [flags]",
	Short: "Create the employees table and optionally fill it with fake rows.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), mopts)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&mopts.ConfigPath, "config", "c", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	rootCmd.Flags().IntVarP(&mopts.Seed, "seed", "s", 0, "number of fake employees to insert")
	rootCmd.Flags().IntVarP(&mopts.Concurrency, "concurrency", "j", 4, "parallel inserts while seeding")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		stdlog.Fatalf("migrate: %s", err)
	}
}

func run(ctx context.Context, o migrateOptions) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
		LogLevel: cfg.DB.LogLevel,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := employee.AutoMigrate(db); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("automigrate done", zap.String("driver", cfg.DB.Driver))

	if o.Seed <= 0 {
		return nil
	}
	svc := service.NewEmployeeService(repo.NewEmployeeRepo(db))
	start := time.Now()
	n, err := seed(ctx, svc, o.Seed, o.Concurrency)
	log.Info("seed finished", zap.Int("inserted", n), zap.Duration("took", time.Since(start)))
	return err
}

var departments = []string{"Engineering", "Sales", "Marketing", "Finance", "Human Resources", "Support"}

type creator interface {
	CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
}

// seed inserts n fake employees through the service so the same validation
// applies. Generated rows that collide on employee_id or email are skipped.
func seed(ctx context.Context, svc creator, n, concurrency int) (int, error) {
	gofakeit.Seed(time.Now().UnixNano())
	runID := strings.ToUpper(gofakeit.UUID()[:4])

	inputs := make([]domain.EmployeeInput, n)
	for i := range inputs {
		inputs[i] = fakeEmployee(runID, i+1)
	}

	var inserted atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))
	for _, in := range inputs {
		g.Go(func() error {
			if _, err := svc.CreateEmployee(gctx, in); err != nil {
				if domain.KindOf(err) == domain.KindConflict {
					return nil
				}
				return err
			}
			inserted.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(inserted.Load()), err
}

func fakeEmployee(runID string, seq int) domain.EmployeeInput {
	empID := fmt.Sprintf("EMP-%s-%05d", runID, seq)
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	email := strings.ToLower(fmt.Sprintf("%s.%s.%s%d@example.com", first, last, runID, seq))
	phone := gofakeit.Phone()
	dept := departments[gofakeit.Number(0, len(departments)-1)]
	position := gofakeit.JobTitle()
	salary := decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(gofakeit.Number(30000, 180000))), Valid: true}
	hired := domain.NullDate{
		Time:  domain.DateOnly(gofakeit.DateRange(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), time.Now())),
		Valid: true,
	}
	status := domain.StatusActive
	if gofakeit.Number(1, 10) == 1 {
		status = domain.StatusInactive
	}
	return domain.EmployeeInput{
		EmployeeID: &empID,
		FirstName:  &first,
		LastName:   &last,
		Email:      &email,
		Phone:      &phone,
		Department: &dept,
		Position:   &position,
		Salary:     &salary,
		HireDate:   &hired,
		Status:     &status,
	}
}
