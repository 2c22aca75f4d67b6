// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"wayfare/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumTravels  int
	ShouldClean bool
}

// Seeder creates demo users and travel diaries.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder returns a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes seeded tables.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing travels and users...")
	if err := s.db.Exec("DELETE FROM travels").Error; err != nil {
		return err
	}
	return s.db.Exec("DELETE FROM users").Error
}

// Run seeds users with moderation roles, then travels in a realistic mix of
// statuses: roughly 60% approved, 25% pending, 15% rejected.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}

	reviewers := usersWithRole(users, models.RoleReviewer, models.RoleAdmin)
	authors := usersWithRole(users, models.RoleUser)

	if err := s.seedTravels(opts.NumTravels, authors, reviewers); err != nil {
		return err
	}

	log.Printf("Seeded %d users and %d travels", len(users), opts.NumTravels)
	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	// All seeded accounts share one password: "password"
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		switch {
		case i == 0:
			role = models.RoleAdmin
		case i <= n/10:
			role = models.RoleReviewer
		}

		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Password: string(hashed),
			Nickname: gofakeit.Name(),
			Avatar:   fmt.Sprintf("avatars/%s.png", gofakeit.UUID()),
			Role:     role,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedTravels(n int, authors, reviewers []*models.User) error {
	if len(authors) == 0 {
		return fmt.Errorf("no author accounts to attach travels to")
	}

	for i := 0; i < n; i++ {
		author := authors[s.rand.Intn(len(authors))]
		travel := s.buildTravel(author)

		roll := s.rand.Float64()
		switch {
		case roll < 0.60:
			s.applyReview(travel, reviewers, models.StatusApproved, "")
		case roll < 0.85:
			// stays pending
		default:
			s.applyReview(travel, reviewers, models.StatusRejected, gofakeit.Sentence(6))
		}

		if err := s.db.Create(travel).Error; err != nil {
			return fmt.Errorf("failed to create travel: %w", err)
		}
	}
	return nil
}

func (s *Seeder) buildTravel(author *models.User) *models.Travel {
	images := make(models.StringList, 1+s.rand.Intn(4))
	for i := range images {
		images[i] = fmt.Sprintf("images/%s.jpg", gofakeit.UUID())
	}

	travel := &models.Travel{
		Title:    fmt.Sprintf("%s in %s", gofakeit.HipsterWord(), gofakeit.City()),
		Content:  gofakeit.Paragraph(2, 4, 8, "\n"),
		Images:   images,
		AuthorID: author.ID,
		Status:   models.StatusPending,
	}
	if s.rand.Float64() < 0.3 {
		travel.Video = fmt.Sprintf("videos/%s.mp4", gofakeit.UUID())
	}

	// realistic created_at spread over the last 90 days
	daysBack := s.rand.Intn(90)
	hoursBack := s.rand.Intn(24)
	travel.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	return travel
}

func (s *Seeder) applyReview(travel *models.Travel, reviewers []*models.User, status, reason string) {
	if len(reviewers) == 0 {
		return
	}
	reviewer := reviewers[s.rand.Intn(len(reviewers))]
	reviewedAt := travel.CreatedAt.Add(time.Duration(1+s.rand.Intn(48)) * time.Hour)

	travel.Status = status
	travel.RejectReason = reason
	travel.ReviewedByID = &reviewer.ID
	travel.ReviewedAt = &reviewedAt
}

func usersWithRole(users []*models.User, roles ...string) []*models.User {
	var out []*models.User
	for _, u := range users {
		for _, r := range roles {
			if u.Role == r {
				out = append(out, u)
				break
			}
		}
	}
	return out
}
