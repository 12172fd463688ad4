package service

import (
	"context"
	"errors"
	"sort"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"
)

type adminService struct {
	tx    repository.TxManager
	repos *repository.Repos
}

func NewAdminService(tx repository.TxManager, repos *repository.Repos) AdminService {
	return &adminService{
		tx:    tx,
		repos: repos,
	}
}

// OverviewRecentLimit is how many cars and rentals the overview lists.
const OverviewRecentLimit = 10

func (s *adminService) Overview(ctx context.Context) (*Overview, error) {
	logger.EnterMethod("adminService.Overview")

	var (
		out Overview
		err error
	)
	if out.CarCount, err = s.repos.Cars.Count(ctx); err != nil {
		logger.ExitMethodWithError("adminService.Overview", err)
		return nil, err
	}
	if out.UserCount, err = s.repos.Users.Count(ctx); err != nil {
		logger.ExitMethodWithError("adminService.Overview", err)
		return nil, err
	}
	if out.RentalCount, err = s.repos.Rentals.Count(ctx); err != nil {
		logger.ExitMethodWithError("adminService.Overview", err)
		return nil, err
	}
	if out.RecentCars, err = s.repos.Cars.ListRecent(ctx, OverviewRecentLimit); err != nil {
		logger.ExitMethodWithError("adminService.Overview", err)
		return nil, err
	}
	if out.RecentRentals, err = s.repos.Rentals.ListRecent(ctx, OverviewRecentLimit); err != nil {
		logger.ExitMethodWithError("adminService.Overview", err)
		return nil, err
	}

	logger.ExitMethod("adminService.Overview", "cars", out.CarCount, "users", out.UserCount, "rentals", out.RentalCount)
	return &out, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repos.Users.List(ctx)
}

func (s *adminService) SetRoles(ctx context.Context, userID int32, roles []domain.Role) (*domain.User, error) {
	logger.EnterMethod("adminService.SetRoles", "userID", userID, "roles", roles)

	if len(roles) == 0 {
		return nil, domain.Validationf("at least one role is required")
	}
	seen := make(map[domain.Role]bool, len(roles))
	var unique []domain.Role
	for _, r := range roles {
		if _, err := domain.ParseRole(string(r)); err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}

	if err := s.repos.Users.UpdateRoles(ctx, userID, unique); err != nil {
		logger.ExitMethodWithError("adminService.SetRoles", err, "userID", userID)
		return nil, err
	}
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("adminService.SetRoles", "userID", userID)
	return user, nil
}

// DeleteUser removes the account together with its customer profile and
// reservations, then re-derives the availability of every car those
// reservations referenced.
func (s *adminService) DeleteUser(ctx context.Context, userID int32) error {
	logger.EnterMethod("adminService.DeleteUser", "userID", userID)

	var affected []int32
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		if _, err := repos.Users.GetByID(ctx, userID); err != nil {
			return err
		}
		customer, err := repos.Customers.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if customer != nil {
			// Lock the referenced cars in id order before deleting their reservations.
			rentals, err := repos.Rentals.ListByCustomer(ctx, customer.ID)
			if err != nil {
				return err
			}
			for _, carID := range distinctCarIDs(rentals) {
				if _, err := repos.Cars.GetForUpdate(ctx, carID); err != nil {
					return err
				}
			}
			if affected, err = repos.Rentals.DeleteByCustomer(ctx, customer.ID); err != nil {
				return err
			}
			for _, carID := range affected {
				if _, err := recompute(ctx, repos, carID); err != nil {
					return err
				}
			}
			if err := repos.Customers.Delete(ctx, customer.ID); err != nil {
				return err
			}
		}
		return repos.Users.Delete(ctx, userID)
	})
	if err != nil {
		logger.ExitMethodWithError("adminService.DeleteUser", err, "userID", userID)
		return err
	}

	logger.InfoContext(ctx, "User deleted", "user_id", userID, "cars_recomputed", len(affected))
	logger.ExitMethod("adminService.DeleteUser", "userID", userID)
	return nil
}

func distinctCarIDs(rentals []domain.Rental) []int32 {
	seen := make(map[int32]bool)
	var ids []int32
	for _, r := range rentals {
		if !seen[r.CarID] {
			seen[r.CarID] = true
			ids = append(ids, r.CarID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
