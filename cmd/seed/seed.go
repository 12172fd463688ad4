package main

import (
	"context"
	"fmt"
	"strings"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository"
	"carrent-backend/internal/security"

	"gopkg.in/yaml.v3"
)

type SeedUser struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	FullName string   `yaml:"full_name"`
	Roles    []string `yaml:"roles"`
}

type SeedCar struct {
	Make         string `yaml:"make"`
	Model        string `yaml:"model"`
	VehicleClass string `yaml:"vehicle_class"`
	Transmission string `yaml:"transmission"`
	Year         int    `yaml:"year"`
	DailyRate    string `yaml:"daily_rate"`
	Catalog      string `yaml:"catalog"`
}

type SeedData struct {
	Users []SeedUser `yaml:"users"`
	Cars  []SeedCar  `yaml:"cars"`
}

type seedResult struct {
	Users        int
	SkippedUsers int
	Cars         int
}

func parseSeedData(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// populate inserts users and cars in one transaction. Existing usernames are
// skipped so the seeder can be re-run; cars are always inserted.
func populate(ctx context.Context, tx repository.TxManager, data *SeedData) (seedResult, error) {
	var res seedResult
	err := tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		for _, su := range data.Users {
			created, err := seedUser(ctx, repos, su)
			if err != nil {
				return fmt.Errorf("user %q: %w", su.Username, err)
			}
			if created {
				res.Users++
			} else {
				res.SkippedUsers++
			}
		}
		for i, sc := range data.Cars {
			car, err := toCar(sc)
			if err != nil {
				return fmt.Errorf("car #%d: %w", i+1, err)
			}
			if err := repos.Cars.Create(ctx, car); err != nil {
				return fmt.Errorf("car #%d: %w", i+1, err)
			}
			res.Cars++
		}
		return nil
	})
	return res, err
}

func seedUser(ctx context.Context, repos *repository.Repos, su SeedUser) (bool, error) {
	if _, err := repos.Users.GetByUsername(ctx, su.Username); err == nil {
		return false, nil
	} else if !domain.IsNotFound(err) {
		return false, err
	}

	roles := []domain.Role{domain.RoleClient}
	if len(su.Roles) > 0 {
		roles = roles[:0]
		for _, raw := range su.Roles {
			role, err := domain.ParseRole(strings.ToUpper(raw))
			if err != nil {
				return false, err
			}
			roles = append(roles, role)
		}
	}

	hash, err := security.HashPassword(su.Password)
	if err != nil {
		return false, err
	}
	user := &domain.User{Username: su.Username, PasswordHash: hash, Roles: roles}
	if err := repos.Users.Create(ctx, user); err != nil {
		return false, err
	}

	// Only clients book, so only they get a customer profile.
	if domain.HasAnyRole(roles, domain.RoleClient) {
		fullName := su.FullName
		if fullName == "" {
			fullName = su.Username
		}
		if err := repos.Customers.Create(ctx, &domain.Customer{UserID: user.ID, FullName: fullName}); err != nil {
			return false, err
		}
	}
	return true, nil
}

func toCar(sc SeedCar) (*domain.Car, error) {
	rate, err := domain.ParseCents(sc.DailyRate)
	if err != nil {
		return nil, err
	}
	catalog := domain.CatalogType(strings.ToUpper(sc.Catalog))
	if catalog == "" {
		catalog = domain.CatalogRegular
	}
	car := &domain.Car{
		Make:           sc.Make,
		Model:          sc.Model,
		VehicleClass:   sc.VehicleClass,
		Transmission:   sc.Transmission,
		Year:           sc.Year,
		DailyRateCents: rate,
		Catalog:        catalog,
		Available:      true,
	}
	if err := car.Validate(); err != nil {
		return nil, err
	}
	return car, nil
}
