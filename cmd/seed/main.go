package main

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/isengartz/SinExpressBlogApi/internal/auth"
	"github.com/isengartz/SinExpressBlogApi/internal/config"
	"github.com/isengartz/SinExpressBlogApi/internal/db"
	"github.com/isengartz/SinExpressBlogApi/internal/model"
	"github.com/isengartz/SinExpressBlogApi/internal/repository"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "changeme-now"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(&model.User{}, &model.Tag{}, &model.Blog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	blogRepo := repository.NewBlogRepository(gormDB)

	admin := seedAdmin(ctx, userRepo)
	tags := seedTags(ctx, gormDB, tagRepo)
	seedBlogs(ctx, gormDB, blogRepo, admin, tags)

	log.Println("Seed completed")
}

// seedAdmin creates the admin account unless it already exists.
func seedAdmin(ctx context.Context, repo repository.UserRepository) *model.User {
	existing, err := repo.FindByEmail(ctx, adminEmail)
	if err == nil {
		log.Printf("Admin user already present: %s", adminEmail)
		return existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin := &model.User{
		Email:        adminEmail,
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Created admin user: %s", adminEmail)
	return admin
}

// seedTags inserts the starter taxonomy, skipping names that already exist.
func seedTags(ctx context.Context, gormDB *gorm.DB, repo repository.TagRepository) []model.Tag {
	fixtures := []model.Tag{
		{Name: "go", Icon: "code"},
		{Name: "javascript", Icon: "code"},
		{Name: "devops", Icon: "server"},
		{Name: "databases", Icon: "database"},
	}

	var tags []model.Tag
	for _, fixture := range fixtures {
		var existing model.Tag
		err := gormDB.WithContext(ctx).Where("name = ?", fixture.Name).First(&existing).Error
		if err == nil {
			tags = append(tags, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to look up tag %q: %v", fixture.Name, err)
		}
		tag := fixture
		if err := repo.Create(ctx, &tag); err != nil {
			log.Fatalf("Failed to create tag %q: %v", fixture.Name, err)
		}
		log.Printf("Created tag: %s", tag.Name)
		tags = append(tags, tag)
	}
	return tags
}

// seedBlogs inserts demo posts authored by the admin.
func seedBlogs(ctx context.Context, gormDB *gorm.DB, repo repository.BlogRepository, admin *model.User, tags []model.Tag) {
	var count int64
	if err := gormDB.WithContext(ctx).Model(&model.Blog{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count blogs: %v", err)
	}
	if count > 0 {
		log.Printf("Blogs already present (%d), skipping blog seed", count)
		return
	}

	fixtures := []model.Blog{
		{
			Title:            "Hello World",
			ShortDescription: "First post on the platform",
			Description:      "A short welcome post introducing the blog.",
			Sorting:          1,
		},
		{
			Title:            "Structuring Go Services",
			ShortDescription: "Handlers, services and repositories",
			Description:      "How the handler/service/repository split keeps HTTP concerns out of persistence code.",
			Sorting:          2,
		},
	}

	for i := range fixtures {
		blog := fixtures[i]
		blog.UserID = admin.ID
		if len(tags) > 0 {
			blog.Tags = tags[:1]
		}
		if err := repo.Create(ctx, &blog); err != nil {
			log.Fatalf("Failed to create blog %q: %v", blog.Title, err)
		}
		log.Printf("Created blog: %s", blog.Title)
	}
}
