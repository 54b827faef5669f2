// Package seed provides database seeding utilities for development and
// testing. All seeded accounts share the password "password123".
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"sabuzz/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumReaders     int
	NumJournalists int
	NumPosts       int
	ShouldClean    bool
}

var categoryNames = []string{
	"Politics", "Business", "Technology", "Science", "Health",
	"Sports", "Entertainment", "Culture", "Travel", "Opinion",
}

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Seed populates the database with test data.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("🌱 Starting database seeding with %d readers, %d journalists and %d posts...",
		opts.NumReaders, opts.NumJournalists, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	admin, err := s.createAdmin()
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("✓ admin account ready (%s)", admin.Email)

	categories, err := s.createCategories()
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("✓ %d categories available", len(categories))

	journalists, err := s.createJournalists(opts.NumJournalists)
	if err != nil {
		return fmt.Errorf("failed to create journalists: %w", err)
	}
	log.Printf("✓ %d journalists created", len(journalists))

	readers, err := s.createReaders(opts.NumReaders)
	if err != nil {
		return fmt.Errorf("failed to create readers: %w", err)
	}
	log.Printf("✓ %d readers created", len(readers))

	posts, err := s.createPosts(journalists, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	comments, err := s.createComments(readers, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", comments)

	likes, saves, err := s.createEngagement(readers, posts)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d likes and %d saved posts created", likes, saves)

	subs, err := s.createSubscribers(readers)
	if err != nil {
		return fmt.Errorf("failed to create subscribers: %w", err)
	}
	log.Printf("✓ %d newsletter subscribers created", subs)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll removes seedable data. Children are deleted before parents so
// the statements also work on databases without cascading deletes.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	tables := []any{
		&models.Notification{},
		&models.Like{},
		&models.SavedPost{},
		&models.Favorite{},
		&models.SavedArticle{},
		&models.Subscriber{},
		&models.Comment{},
		&models.Post{},
		&models.JournalistRequest{},
		&models.Profile{},
		&models.User{},
		&models.Category{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return s.db.Exec("DELETE FROM user_groups").Error
}

func hashedSeedPassword() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	return string(hash)
}

func (s *Seeder) createAdmin() (*models.User, error) {
	admin := models.User{
		Username:    "admin",
		Email:       "admin@example.com",
		Password:    hashedSeedPassword(),
		FirstName:   "Site",
		LastName:    "Admin",
		IsSuperuser: true,
		Profile: &models.Profile{
			Role:        models.RoleAdmin,
			DisplayName: "Site Admin",
		},
	}
	if err := s.db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *Seeder) createCategories() ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category := models.Category{Name: name, Description: gofakeit.Sentence(8)}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *Seeder) buildUser(i int, role string) models.User {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := fmt.Sprintf("%s%s%d", first, last, i)
	user := models.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		Password:  hashedSeedPassword(),
		FirstName: first,
		LastName:  last,
		Profile: &models.Profile{
			Role:         role,
			ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		},
	}
	if role == models.RoleJournalist {
		user.Profile.DisplayName = first + " " + last
	}
	return user
}

func (s *Seeder) createJournalists(count int) ([]models.User, error) {
	var group models.Group
	if err := s.db.Where(models.Group{Name: models.JournalistsGroup}).FirstOrCreate(&group).Error; err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := s.buildUser(i, models.RoleJournalist)
		user.Groups = []models.Group{group}
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create journalist %s: %v", user.Username, err)
			continue
		}
		request := models.JournalistRequest{
			UserID: user.ID,
			Reason: gofakeit.Sentence(12),
			Status: models.RequestStatusApproved,
		}
		if err := s.db.Create(&request).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createReaders(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := s.buildUser(count+i, models.RoleReader)
		if err := s.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create reader %s: %v", user.Username, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d readers...", i)
		}
	}
	return users, nil
}

func (s *Seeder) createPosts(journalists []models.User, categories []models.Category, count int) ([]models.Post, error) {
	if len(journalists) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := journalists[s.r.Intn(len(journalists))]

		status := models.PostStatusPublished
		switch roll := s.r.Float32(); {
		case roll < 0.15:
			status = models.PostStatusDraft
		case roll < 0.30:
			status = models.PostStatusPending
		}

		post := models.Post{
			Title:   gofakeit.Sentence(s.r.Intn(8) + 3),
			Content: gofakeit.Paragraph(s.r.Intn(4)+2, 3, 12, "\n\n"),
			Status:  status,
			UserID:  author.ID,
		}
		if len(categories) > 0 && s.r.Float32() < 0.8 {
			post.CategoryID = &categories[s.r.Intn(len(categories))].ID
		}
		if s.r.Float32() < 0.6 {
			post.Image = fmt.Sprintf("https://picsum.photos/seed/%d/1200/630", s.r.Intn(10000))
		}

		daysBack := s.r.Intn(90)
		hoursBack := s.r.Intn(24)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

		if err := s.db.Create(&post).Error; err != nil {
			log.Printf("Failed to create post %q: %v", post.Title, err)
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) createComments(readers []models.User, posts []models.Post) (int, error) {
	if len(readers) == 0 {
		return 0, nil
	}

	created := 0
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for i := 0; i < s.r.Intn(6); i++ {
			comment := models.Comment{
				Text:     gofakeit.Sentence(s.r.Intn(15) + 3),
				Approved: s.r.Float32() < 0.7,
				UserID:   readers[s.r.Intn(len(readers))].ID,
				PostID:   post.ID,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) createEngagement(readers []models.User, posts []models.Post) (likes, saves int, err error) {
	if len(readers) == 0 {
		return 0, 0, nil
	}

	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for i := 0; i < s.r.Intn(len(readers)+1); i++ {
			reader := readers[s.r.Intn(len(readers))]
			like := models.Like{UserID: reader.ID, PostID: post.ID}
			result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
			if result.Error != nil {
				return likes, saves, result.Error
			}
			likes += int(result.RowsAffected)

			if s.r.Float32() < 0.3 {
				saved := models.SavedPost{UserID: reader.ID, PostID: post.ID}
				result = s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved)
				if result.Error != nil {
					return likes, saves, result.Error
				}
				saves += int(result.RowsAffected)
			}
		}
	}
	return likes, saves, nil
}

func (s *Seeder) createSubscribers(readers []models.User) (int, error) {
	created := 0
	for i := range readers {
		if s.r.Float32() > 0.4 {
			continue
		}
		sub := models.Subscriber{Email: readers[i].Email, UserID: &readers[i].ID}
		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
		if result.Error != nil {
			return created, result.Error
		}
		created += int(result.RowsAffected)
	}

	// a few subscribers with no account
	for i := 0; i < 10; i++ {
		sub := models.Subscriber{Email: gofakeit.Email()}
		result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
		if result.Error != nil {
			return created, result.Error
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}
