package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"accessdash/internal/middleware"
	"accessdash/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Users    int
	Requests int
	MaxDays  int
	Clean    bool
	// Seed fixes the generated content; zero uses the current time
	Seed int64
}

// Result reports what a run inserted.
type Result struct {
	Users    int
	Requests int
	Comments int
}

// referenceDepartments and referenceSystems match the rows inserted by the
// reference data migration.
var (
	referenceDepartments = []models.Department{
		{Name: "IT", Code: "IT", IsActive: true},
		{Name: "Finance", Code: "FIN", IsActive: true},
		{Name: "Marketing", Code: "MKT", IsActive: true},
		{Name: "Legal", Code: "LEG", IsActive: true},
		{Name: "Customer Service", Code: "CS", IsActive: true},
	}
	referenceSystems = []models.System{
		{Name: "System A", Code: "SYSA", Description: "Core line-of-business application", IsActive: true},
		{Name: "Account Management", Code: "ACCT", Description: "User account provisioning and lifecycle", IsActive: true},
		{Name: "Data Reporting", Code: "DATA", Description: "Reporting and analytics warehouse", IsActive: true},
	}
)

// Seeder fills a database with demo users, requests and comments.
type Seeder struct {
	db   *gorm.DB
	opts Options
	now  func() time.Time
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.Users <= 0 {
		opts.Users = 25
	}
	if opts.Requests < 0 {
		opts.Requests = 0
	}
	return &Seeder{db: db, opts: opts, now: time.Now}
}

// ClearAll removes generated rows. Reference departments and systems stay.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"request_comments", "access_requests", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// EnsureReferenceData inserts any missing reference department or system.
// Existing rows are left untouched.
func EnsureReferenceData(ctx context.Context, db *gorm.DB) ([]models.Department, []models.System, error) {
	tx := db.WithContext(ctx)
	depts := make([]models.Department, 0, len(referenceDepartments))
	for _, d := range referenceDepartments {
		row := d
		if err := tx.Where("code = ?", d.Code).Attrs(d).FirstOrCreate(&row).Error; err != nil {
			return nil, nil, fmt.Errorf("ensure department %s: %w", d.Code, err)
		}
		depts = append(depts, row)
	}
	systems := make([]models.System, 0, len(referenceSystems))
	for _, sys := range referenceSystems {
		row := sys
		if err := tx.Where("code = ?", sys.Code).Attrs(sys).FirstOrCreate(&row).Error; err != nil {
			return nil, nil, fmt.Errorf("ensure system %s: %w", sys.Code, err)
		}
		systems = append(systems, row)
	}
	return depts, systems, nil
}

// Run seeds the database in a single transaction.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if s.opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = s.now().UnixNano()
	}
	f := NewFactory(seed, s.now(), s.opts.MaxDays)
	result := &Result{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		depts, systems, err := EnsureReferenceData(ctx, tx)
		if err != nil {
			return err
		}

		users := make([]*models.User, 0, s.opts.Users)
		for i := 0; i < s.opts.Users; i++ {
			users = append(users, f.BuildUser())
		}
		if err := tx.CreateInBatches(users, 100).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}
		result.Users = len(users)

		if s.opts.Requests == 0 {
			return nil
		}

		reqs := make([]*models.AccessRequest, 0, s.opts.Requests)
		for i := 0; i < s.opts.Requests; i++ {
			requester := users[f.faker.Number(0, len(users)-1)]
			dept := &depts[f.faker.Number(0, len(depts)-1)]
			sys := &systems[f.faker.Number(0, len(systems)-1)]
			reqs = append(reqs, f.BuildRequest(requester, dept, sys))
		}
		if err := tx.CreateInBatches(reqs, 100).Error; err != nil {
			return fmt.Errorf("create requests: %w", err)
		}
		result.Requests = len(reqs)

		comments := make([]*models.Comment, 0, len(reqs))
		for _, req := range reqs {
			if !req.Status.Terminal() {
				continue
			}
			reviewer := users[f.faker.Number(0, len(users)-1)]
			comments = append(comments, f.BuildComment(req, reviewer))
		}
		if len(comments) > 0 {
			if err := tx.CreateInBatches(comments, 100).Error; err != nil {
				return fmt.Errorf("create comments: %w", err)
			}
		}
		result.Comments = len(comments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", result.Users),
		slog.Int("requests", result.Requests),
		slog.Int("comments", result.Comments))
	return result, nil
}
