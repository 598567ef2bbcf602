// Command seed clears the database and loads demo users and activities.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/entityhub/internal/config"
	"github.com/iliyamo/entityhub/internal/database"
	"github.com/iliyamo/entityhub/internal/model"
	"github.com/iliyamo/entityhub/internal/repository"
	"github.com/iliyamo/entityhub/internal/utils"
)

var activityTypes = []string{"Running", "Cycling", "Swimming", "Yoga", "Weight Training"}

type seedUser struct {
	email, name, password string
	role                  model.Role
}

var users = []seedUser{
	{"john@example.com", "John Doe", "test123", model.RoleUser},
	{"jane@example.com", "Jane Smith", "test123", model.RoleUser},
	{"admin@example.com", "Admin User", "admin123", model.RoleAdmin},
}

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("database cleared and seeded")
}

func run(log *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	if err := clearTables(ctx, db); err != nil {
		return err
	}
	log.Info("tables cleared")

	acts := repository.NewActivityRepo(db)
	types := make([]model.ActivityType, 0, len(activityTypes))
	for _, name := range activityTypes {
		t := model.ActivityType{Name: name}
		if err := acts.CreateType(ctx, &t); err != nil {
			return fmt.Errorf("activity type %s: %w", name, err)
		}
		types = append(types, t)
	}

	userRepo := repository.NewUserRepo(db)
	created := make([]model.User, 0, len(users))
	for _, su := range users {
		hash, err := utils.HashPassword(su.password, cfg.BcryptCost)
		if err != nil {
			return err
		}
		u := model.User{Email: su.email, Name: su.name, PasswordHash: hash, Role: su.role}
		if err := userRepo.Create(ctx, &u); err != nil {
			return fmt.Errorf("user %s: %w", su.email, err)
		}
		created = append(created, u)
	}

	for _, a := range sampleActivities(types, created) {
		if err := acts.Create(ctx, &a); err != nil {
			return fmt.Errorf("activity: %w", err)
		}
	}
	log.Info("seeded",
		zap.Int("activity_types", len(types)),
		zap.Int("users", len(created)))
	return nil
}

// clearTables deletes children before parents.
func clearTables(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"activities", "activity_types", "entities", "users"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func sampleActivities(types []model.ActivityType, users []model.User) []model.Activity {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	weekdays, _ := json.Marshal([]string{"MONDAY", "WEDNESDAY", "FRIDAY"})
	age := func(n int) *int { return &n }

	return []model.Activity{
		{TypeID: types[0].ID, Date: &day, TimeFrom: "07:00", TimeTo: "08:00", FilterGender: model.GenderAny, UserID: users[0].ID},
		{TypeID: types[2].ID, IsAnyDate: true, TimeFrom: "07:00", TimeTo: "08:00", FilterGender: model.GenderAny, UserID: users[0].ID},
		{
			TypeID: types[3].ID, Date: &day, TimeFrom: "18:00", TimeTo: "19:00", FilterGender: model.GenderAny,
			FilterAgeFrom: age(18), FilterAgeTo: age(65), FilterLocation: age(3), UserID: users[1].ID,
		},
		{TypeID: types[1].ID, Weekdays: weekdays, TimeFrom: "16:00", TimeTo: "17:30", FilterGender: model.GenderAny, UserID: users[0].ID},
	}
}
