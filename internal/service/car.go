package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"carrent-backend/internal/domain"
	"carrent-backend/internal/logger"
	"carrent-backend/internal/repository"
	"carrent-backend/internal/storage"

	"github.com/google/uuid"
)

// PhotoOptions limits car photo uploads.
type PhotoOptions struct {
	MaxBytes     int64
	AllowedTypes []string
}

type carService struct {
	tx       repository.TxManager
	repos    *repository.Repos
	photos   storage.PhotoStore
	photoOpt PhotoOptions
}

func NewCarService(tx repository.TxManager, repos *repository.Repos, photos storage.PhotoStore, photoOpt PhotoOptions) CarService {
	return &carService{
		tx:       tx,
		repos:    repos,
		photos:   photos,
		photoOpt: photoOpt,
	}
}

// visibleFilter narrows the requested catalogs to those the viewer may see.
func visibleFilter(roles []domain.Role, filter domain.CarFilter) domain.CarFilter {
	visible := domain.VisibleCatalogs(roles)
	if len(filter.Catalogs) == 0 {
		filter.Catalogs = visible
		return filter
	}
	var allowed []domain.CatalogType
	for _, want := range filter.Catalogs {
		for _, v := range visible {
			if want == v {
				allowed = append(allowed, want)
			}
		}
	}
	if len(allowed) == 0 {
		// Asking only for hidden catalogs matches nothing rather than everything.
		allowed = []domain.CatalogType{"-"}
	}
	filter.Catalogs = allowed
	return filter
}

func (s *carService) ListCars(ctx context.Context, viewerRoles []domain.Role, filter domain.CarFilter, page, pageSize int32) ([]domain.Car, int32, error) {
	logger.EnterMethod("carService.ListCars", "page", page, "pageSize", pageSize)
	cars, total, err := s.repos.Cars.List(ctx, visibleFilter(viewerRoles, filter), page, pageSize)
	if err != nil {
		logger.ExitMethodWithError("carService.ListCars", err)
		return nil, 0, err
	}
	logger.ExitMethod("carService.ListCars", "count", len(cars), "total", total)
	return cars, total, nil
}

func (s *carService) ListAvailableForDates(ctx context.Context, viewerRoles []domain.Role, start, end time.Time) ([]domain.Car, error) {
	period := domain.NewDateRange(start, end)
	if start.IsZero() || end.IsZero() || !period.Valid() {
		return nil, fmt.Errorf("%w: start must not be after end", domain.ErrInvalidDateRange)
	}

	filter := visibleFilter(viewerRoles, domain.CarFilter{})
	const pageSize = 100
	var available []domain.Car
	for page := int32(1); ; page++ {
		cars, total, err := s.repos.Cars.List(ctx, filter, page, pageSize)
		if err != nil {
			return nil, err
		}
		for _, c := range cars {
			overlap, err := s.repos.Rentals.HasOverlap(ctx, c.ID, period.Start, period.End)
			if err != nil {
				return nil, err
			}
			if !overlap {
				available = append(available, c)
			}
		}
		if page*pageSize >= total {
			break
		}
	}
	return available, nil
}

func (s *carService) GetCar(ctx context.Context, viewerRoles []domain.Role, id int32) (*domain.Car, error) {
	car, err := s.repos.Cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.Catalog.Restricted() && !domain.IsStaff(viewerRoles) {
		return nil, domain.NotFoundf("car %d", id)
	}
	return car, nil
}

func (s *carService) CreateCar(ctx context.Context, car *domain.Car) error {
	logger.EnterMethod("carService.CreateCar", "make", car.Make, "model", car.Model)
	if car.Catalog == "" {
		car.Catalog = domain.CatalogRegular
	}
	if err := car.Validate(); err != nil {
		logger.ExitMethodWithError("carService.CreateCar", err)
		return err
	}
	// A car without reservations is available.
	car.Available = true
	if err := s.repos.Cars.Create(ctx, car); err != nil {
		logger.ExitMethodWithError("carService.CreateCar", err)
		return err
	}
	logger.ExitMethod("carService.CreateCar", "carID", car.ID)
	return nil
}

func (s *carService) UpdateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	logger.EnterMethod("carService.UpdateCar", "carID", car.ID)
	if car.Catalog == "" {
		car.Catalog = domain.CatalogRegular
	}
	if err := car.Validate(); err != nil {
		logger.ExitMethodWithError("carService.UpdateCar", err, "carID", car.ID)
		return nil, err
	}
	if err := s.repos.Cars.Update(ctx, car); err != nil {
		logger.ExitMethodWithError("carService.UpdateCar", err, "carID", car.ID)
		return nil, err
	}
	updated, err := s.repos.Cars.GetByID(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	logger.ExitMethod("carService.UpdateCar", "carID", car.ID)
	return updated, nil
}

func (s *carService) DeleteCar(ctx context.Context, id int32) error {
	logger.EnterMethod("carService.DeleteCar", "carID", id)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, repos *repository.Repos) error {
		if _, err := repos.Cars.GetForUpdate(ctx, id); err != nil {
			return err
		}
		holding, err := repos.Rentals.CountHolding(ctx, id)
		if err != nil {
			return err
		}
		if holding > 0 {
			return domain.Conflictf("car %d has %d open reservations", id, holding)
		}
		return repos.Cars.Delete(ctx, id)
	})
	if err != nil {
		logger.ExitMethodWithError("carService.DeleteCar", err, "carID", id)
		return err
	}
	logger.ExitMethod("carService.DeleteCar", "carID", id)
	return nil
}

func (s *carService) UploadPhoto(ctx context.Context, carID int32, contentType string, body io.Reader) (*domain.Car, error) {
	logger.EnterMethod("carService.UploadPhoto", "carID", carID, "contentType", contentType)

	allowed := false
	for _, t := range s.photoOpt.AllowedTypes {
		if t == contentType {
			allowed = true
			break
		}
	}
	ext := storage.ExtensionFor(contentType)
	if !allowed || ext == "" {
		return nil, domain.Validationf("unsupported photo type %q", contentType)
	}

	car, err := s.repos.Cars.GetByID(ctx, carID)
	if err != nil {
		logger.ExitMethodWithError("carService.UploadPhoto", err, "carID", carID)
		return nil, err
	}

	key := fmt.Sprintf("cars/%d/%s%s", carID, uuid.NewString(), ext)
	if _, err := s.photos.Save(ctx, key, body, s.photoOpt.MaxBytes); err != nil {
		if err == storage.ErrFileTooLarge {
			err = domain.Validationf("photo exceeds %d bytes", s.photoOpt.MaxBytes)
		}
		logger.ExitMethodWithError("carService.UploadPhoto", err, "carID", carID)
		return nil, err
	}

	car.PhotoURL = s.photos.URL(key)
	if err := s.repos.Cars.Update(ctx, car); err != nil {
		s.photos.Delete(ctx, key)
		logger.ExitMethodWithError("carService.UploadPhoto", err, "carID", carID)
		return nil, err
	}
	logger.ExitMethod("carService.UploadPhoto", "carID", carID, "key", key)
	return car, nil
}
