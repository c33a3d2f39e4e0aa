package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/water-complaint-backend/internal/storage"
	"gorm.io/gorm"
)

type seedUser struct {
	user     models.User
	password string
}

func defaultUsers() []seedUser {
	resident := func(n int, name, aadhaar, phone, address string, family int) seedUser {
		return seedUser{
			user: models.User{
				Username:     fmt.Sprintf("user%d@gmail.com", n),
				Role:         models.RoleUser,
				Name:         name,
				Aadhaar:      aadhaar,
				Phone:        phone,
				Address:      address,
				FamilySize:   family,
				PropertyType: "Apartment",
			},
			password: fmt.Sprintf("user%d123", n),
		}
	}
	return []seedUser{
		resident(1, "User One", "1234-5678-9012", "9876543210", "Block A, Flat 101", 4),
		resident(2, "User Two", "2345-6789-0123", "9876543211", "Block B, Flat 201", 3),
		resident(3, "User Three", "3456-7890-1234", "9876543212", "Block C, Flat 301", 5),
		resident(4, "User Four", "4567-8901-2345", "9876543213", "Block D, Flat 401", 2),
		{
			user: models.User{
				Username:     "admin@perundurai",
				Role:         models.RoleAdmin,
				Name:         "Admin",
				Aadhaar:      "9999-9999-9999",
				Phone:        "9999999999",
				Address:      "Admin Office",
				FamilySize:   1,
				PropertyType: "Office",
			},
			password: "Admin@123",
		},
		{
			user: models.User{
				Username:     "supreme@perundurai",
				Role:         models.RoleSupreme,
				Name:         "Supreme Authority",
				Aadhaar:      "8888-8888-8888",
				Phone:        "8888888888",
				Address:      "Supreme Office",
				FamilySize:   1,
				PropertyType: "Office",
			},
			password: "Supreme@123",
		},
	}
}

func seedTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func sampleComplaints() []models.Complaint {
	admin := "admin@perundurai"
	withScore := func(c models.Complaint) models.Complaint {
		c.EndorsementCount = len(c.Endorsements)
		c.PriorityScore = InitialPriority(c.IsEmergency) + EndorsementIncrement*c.EndorsementCount
		if c.Photos == nil {
			c.Photos = []string{}
		}
		if c.Comments == nil {
			c.Comments = []models.Comment{}
		}
		if c.AdminComments == nil {
			c.AdminComments = []models.AdminComment{}
		}
		return c
	}

	return []models.Complaint{
		withScore(models.Complaint{
			ComplaintID: "COMP001",
			UserID:      "user1@gmail.com",
			UserName:    "User One",
			Type:        models.CategoryLowWaterPressure,
			Description: "Morning time water pressure is very low in building A, affecting upper floors",
			Location:    models.Location{Lat: 11.3273, Lng: 79.9197, Area: "Block A"},
			Status:      models.StatusWorking,
			StatusHistory: []models.StatusEntry{
				{Status: models.StatusNoted, Timestamp: seedTime("2025-11-01T08:30")},
				{Status: models.StatusWorking, Timestamp: seedTime("2025-11-02T10:00")},
			},
			Endorsements: []string{"user2@gmail.com", "user3@gmail.com", "user4@gmail.com"},
			Comments: []models.Comment{
				{UserID: "user2@gmail.com", UserName: "User Two", Message: "Same issue in my flat, Block A 5th floor", Timestamp: seedTime("2025-11-01T09:15")},
				{UserID: "user3@gmail.com", UserName: "User Three", Message: "This is urgent! Please fix ASAP", Timestamp: seedTime("2025-11-01T10:45")},
			},
			AdminID:       &admin,
			AdminComments: []models.AdminComment{{Comment: "Team assigned, work in progress", Timestamp: seedTime("2025-11-02T10:00")}},
			CreatedAt:     seedTime("2025-11-01T08:30"),
			UpdatedAt:     seedTime("2025-11-02T10:00"),
		}),
		withScore(models.Complaint{
			ComplaintID: "COMP002",
			UserID:      "user2@gmail.com",
			UserName:    "User Two",
			Type:        models.CategoryTankLeakage,
			Description: "Overhead tank in common area is leaking, visible water dripping",
			Location:    models.Location{Lat: 11.3275, Lng: 79.9199, Area: "Common Area"},
			Status:      models.StatusResolved,
			StatusHistory: []models.StatusEntry{
				{Status: models.StatusNoted, Timestamp: seedTime("2025-10-28T14:20")},
				{Status: models.StatusWorking, Timestamp: seedTime("2025-10-30T10:00")},
				{Status: models.StatusResolved, Timestamp: seedTime("2025-11-01T16:30")},
			},
			Endorsements: []string{"user1@gmail.com", "user3@gmail.com"},
			Comments: []models.Comment{
				{UserID: "user1@gmail.com", UserName: "User One", Message: "Good work, finally fixed!", Timestamp: seedTime("2025-11-01T16:45")},
			},
			AdminID:       &admin,
			AdminComments: []models.AdminComment{{Comment: "Resolved, tank repaired", Timestamp: seedTime("2025-11-01T16:30")}},
			CreatedAt:     seedTime("2025-10-28T14:20"),
			UpdatedAt:     seedTime("2025-11-01T16:45"),
		}),
		withScore(models.Complaint{
			ComplaintID: "COMP003",
			UserID:      "user3@gmail.com",
			UserName:    "User Three",
			Type:        models.CategoryNoWaterSupply,
			Description: "No water in Block C for past 5 hours, very urgent",
			Location:    models.Location{Lat: 11.327, Lng: 79.9195, Area: "Block C"},
			Status:      models.StatusNoted,
			StatusHistory: []models.StatusEntry{
				{Status: models.StatusNoted, Timestamp: seedTime("2025-11-02T06:00")},
			},
			Endorsements: []string{"user1@gmail.com", "user2@gmail.com", "user4@gmail.com"},
			IsEmergency:  true,
			CreatedAt:    seedTime("2025-11-02T06:00"),
			UpdatedAt:    seedTime("2025-11-02T06:05"),
		}),
	}
}

// Seeder installs the default accounts and sample complaints into empty
// tables.
type Seeder struct {
	db    *gorm.DB
	store storage.ComplaintStore
	Now   func() time.Time
}

func NewSeeder(db *gorm.DB, store storage.ComplaintStore) *Seeder {
	return &Seeder{db: db, store: store, Now: time.Now}
}

func (s *Seeder) Seed(ctx context.Context) error {
	if _, err := s.SeedUsers(ctx); err != nil {
		return err
	}
	if _, err := s.SeedComplaints(ctx); err != nil {
		return err
	}
	return nil
}

// SeedUsers inserts the default accounts when the users table is empty and
// returns how many were created.
func (s *Seeder) SeedUsers(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	seeds := defaultUsers()
	users := make([]models.User, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := HashPassword(seed.password)
		if err != nil {
			return 0, err
		}
		u := seed.user
		u.PasswordHash = hash
		u.Badges = []string{}
		u.CreatedAt = s.Now().UTC()
		users = append(users, u)
	}
	if err := s.db.WithContext(ctx).Create(&users).Error; err != nil {
		return 0, fmt.Errorf("failed to seed users: %w", err)
	}
	slog.Info("default users created", "count", len(users))
	return len(users), nil
}

func (s *Seeder) SeedComplaints(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Complaint{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	samples := sampleComplaints()
	for i := range samples {
		if err := s.store.Insert(ctx, &samples[i]); err != nil {
			return i, err
		}
	}
	slog.Info("sample complaints created", "count", len(samples))
	return len(samples), nil
}

// ResetUsers removes every account and installs the defaults again.
func (s *Seeder) ResetUsers(ctx context.Context) (int, error) {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.User{}).Error; err != nil {
		return 0, fmt.Errorf("failed to clear users: %w", err)
	}
	slog.Warn("users table cleared")
	return s.SeedUsers(ctx)
}
