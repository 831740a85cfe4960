package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mediscanner/internal/config"
	"mediscanner/internal/db"
	apperrors "mediscanner/internal/errors"
	"mediscanner/internal/model"
	"mediscanner/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	demoEmail    = "demo@mediscanner.dev"
	demoPassword = "Demo123!@"
)

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	database, err := db.NewMongo(ctx, cfg.MongoURL, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Database indexes ensured")

	userRepo := repository.NewUserRepository(database)
	recordRepo := repository.NewRecordRepository(database)

	user, created, err := seedDemoUser(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	if !created {
		log.Printf("Demo user already present (%s), leaving records untouched", demoEmail)
		return
	}

	seeded, err := seedDemoRecords(ctx, recordRepo, user)
	if err != nil {
		log.Fatalf("Failed to seed demo records: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Demo user: %s (password %s)", demoEmail, demoPassword)
	log.Printf("  - Records created: %d", seeded)
}

// seedDemoUser creates the demo account unless it already exists.
func seedDemoUser(ctx context.Context, repo repository.UserRepository) (*model.User, bool, error) {
	existing, err := repo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, fmt.Errorf("check demo user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, false, fmt.Errorf("hash demo password: %w", err)
	}

	user := &model.User{
		Name:         "Demo Patient",
		Email:        demoEmail,
		Age:          34,
		MobileNumber: "9876543210",
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create demo user: %w", err)
	}
	return user, true, nil
}

// seedDemoRecords inserts a few prescriptions so listing, filtering, and
// stats have data to work with out of the box.
func seedDemoRecords(ctx context.Context, repo repository.RecordRepository, user *model.User) (int, error) {
	records := []model.MedicalRecord{
		{
			UserID:       user.ID,
			SerialNo:     1,
			PatientName:  user.Name,
			Age:          user.Age,
			Weight:       72.5,
			Height:       176,
			Temperature:  98.6,
			HospitalName: "City General Hospital",
			DoctorName:   "Dr. A. Sharma",
			Date:         "2026-07-14",
			Medicines: []model.Medicine{
				{ID: "med_1", Name: "Amoxicillin 500mg", Quantity: 15, TimeOfIntake: "Morning-Evening", BeforeOrAfterMeals: "After Meals"},
				{ID: "med_2", Name: "Paracetamol 650mg", Quantity: 10, TimeOfIntake: "Morning", BeforeOrAfterMeals: "After Meals"},
			},
		},
		{
			UserID:       user.ID,
			SerialNo:     2,
			PatientName:  user.Name,
			Age:          user.Age,
			Weight:       72.1,
			Height:       176,
			Temperature:  99.1,
			HospitalName: "Sunrise Clinic",
			DoctorName:   "Dr. R. Iyer",
			Date:         "2026-08-02",
			Medicines: []model.Medicine{
				{ID: "med_1", Name: "Cetirizine 10mg", Quantity: 7, TimeOfIntake: "Night", BeforeOrAfterMeals: "After Meals"},
			},
		},
		{
			UserID:       user.ID,
			SerialNo:     3,
			PatientName:  user.Name,
			Age:          user.Age,
			Weight:       71.8,
			Height:       176,
			Temperature:  98.4,
			HospitalName: "City General Hospital",
			DoctorName:   "Dr. A. Sharma",
			Date:         "2026-08-21",
			Medicines: []model.Medicine{
				{ID: "med_1", Name: "Pantoprazole 40mg", Quantity: 14, TimeOfIntake: "Morning", BeforeOrAfterMeals: "Before Meals"},
				{ID: "med_2", Name: "Domperidone 10mg", Quantity: 14, TimeOfIntake: "Morning-Evening", BeforeOrAfterMeals: "Before Meals"},
			},
		},
	}

	for i := range records {
		if err := repo.Create(ctx, &records[i]); err != nil {
			return i, fmt.Errorf("create record %d: %w", i+1, err)
		}
	}
	return len(records), nil
}
