package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

const batchSize = 100

// Options controls how much demo data Seed creates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with demo users and posts.
// Posts are spread randomly across the created users.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumPosts > 0 && opts.NumUsers <= 0 {
		return errors.New("posts need at least one user to own them")
	}

	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	f, err := NewFactory(db)
	if err != nil {
		return fmt.Errorf("failed to build factory: %w", err)
	}

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	posts, err := createPosts(db, f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", posts)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}).Error
	})
}

func createUsers(f *Factory, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, f *Factory, users []*models.User, n int) (int, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		//nolint:gosec // Weak random number generator is fine for seeding
		owner := users[rand.Intn(len(users))]
		posts = append(posts, f.BuildPost(owner))
	}
	if len(posts) == 0 {
		return 0, nil
	}
	if err := db.CreateInBatches(posts, batchSize).Error; err != nil {
		return 0, err
	}
	return len(posts), nil
}
