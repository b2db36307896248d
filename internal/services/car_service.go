package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"crud_api/internal/database"
	"crud_api/internal/models"
	"crud_api/internal/repositories"
	"crud_api/internal/utils"
)

var carCSVHeader = []string{"id", "brand", "model", "year", "color", "owner_id", "created_at"}

type CarService struct {
	db        *database.DB
	carRepo   *repositories.CarRepository
	ownerRepo *repositories.CarOwnerRepository
	now       func() time.Time
}

func NewCarService(db *database.DB, carRepo *repositories.CarRepository, ownerRepo *repositories.CarOwnerRepository) *CarService {
	return &CarService{
		db:        db,
		carRepo:   carRepo,
		ownerRepo: ownerRepo,
		now:       time.Now,
	}
}

func (s *CarService) ListCars(ctx context.Context, ownerID *int64) ([]models.Car, error) {
	cars, err := s.carRepo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return cars, nil
}

func (s *CarService) GetCar(ctx context.Context, id int64) (*models.Car, error) {
	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	if car == nil {
		return nil, ErrCarNotFound
	}
	return car, nil
}

func (s *CarService) validateOwnerExists(ctx context.Context, ownerID int64) error {
	exists, err := s.ownerRepo.Exists(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to check car owner: %w", err)
	}
	if !exists {
		return ErrOwnerDoesNotExist
	}
	return nil
}

func (s *CarService) CreateCar(ctx context.Context, req models.CreateCarRequest) (*models.Car, error) {
	if err := s.validateOwnerExists(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	car := req.Car()
	car.Prepare(s.now())

	if err := s.carRepo.Create(ctx, car); err != nil {
		// the owner was deleted between the check and the insert
		if database.IsForeignKeyViolation(err) {
			return nil, ErrOwnerDoesNotExist
		}
		return nil, fmt.Errorf("failed to save car: %w", err)
	}
	return car, nil
}

// UpdateCar applies a partial update. A new owner_id must reference an
// existing owner.
func (s *CarService) UpdateCar(ctx context.Context, id int64, patch models.CarUpdate) (*models.Car, error) {
	current, err := s.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return current, nil
	}
	if patch.OwnerID != nil {
		if err := s.validateOwnerExists(ctx, *patch.OwnerID); err != nil {
			return nil, err
		}
	}

	patch.Normalize()
	ok, err := s.carRepo.Update(ctx, id, patch)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrOwnerDoesNotExist
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	if !ok {
		return nil, ErrCarNotFound
	}
	return s.GetCar(ctx, id)
}

func (s *CarService) DeleteCar(ctx context.Context, id int64) error {
	ok, err := s.carRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if !ok {
		return ErrCarNotFound
	}
	return nil
}

// ImportCSV appends cars from a brand,model,year,color,owner_id file. Rows
// whose owner does not exist are skipped and reported.
func (s *CarService) ImportCSV(ctx context.Context, content []byte) (*models.ImportResult, error) {
	records, err := readCSV(content, []string{"brand", "model", "year", "color", "owner_id"})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	collector := newImportCollector(now)

	type pending struct {
		line int
		car  *models.Car
	}
	var cars []pending
	for _, rec := range records {
		year, err := strconv.Atoi(rec.get("year"))
		if err != nil {
			collector.skip(rec.line, "year must be an integer")
			continue
		}
		ownerID, err := strconv.ParseInt(rec.get("owner_id"), 10, 64)
		if err != nil {
			collector.skip(rec.line, "owner_id must be an integer")
			continue
		}
		req := models.CreateCarRequest{
			Brand:   rec.get("brand"),
			Model:   rec.get("model"),
			Year:    year,
			Color:   rec.get("color"),
			OwnerID: ownerID,
		}
		if err := utils.ValidateStruct(req); err != nil {
			collector.skipInvalid(rec.line, err)
			continue
		}
		car := req.Car()
		car.Prepare(now)
		cars = append(cars, pending{line: rec.line, car: car})
	}

	var orphans []int
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		carRepo := s.carRepo.WithTx(tx)
		ownerRepo := s.ownerRepo.WithTx(tx)
		known := map[int64]bool{}
		for _, p := range cars {
			exists, seen := known[p.car.OwnerID]
			if !seen {
				var err error
				if exists, err = ownerRepo.Exists(ctx, p.car.OwnerID); err != nil {
					return err
				}
				known[p.car.OwnerID] = exists
			}
			if !exists {
				orphans = append(orphans, p.line)
				continue
			}
			if err := carRepo.Create(ctx, p.car); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import cars: %w", err)
	}

	for _, line := range orphans {
		collector.skip(line, ErrOwnerDoesNotExist.Error())
	}
	collector.imported = len(cars) - len(orphans)
	return collector.result("cars"), nil
}

func (s *CarService) ExportCSV(ctx context.Context, ownerID *int64) ([]byte, error) {
	cars, err := s.ListCars(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(cars))
	for _, car := range cars {
		rows = append(rows, []string{
			strconv.FormatInt(car.ID, 10),
			car.Brand,
			car.Model,
			strconv.Itoa(car.Year),
			car.Color,
			strconv.FormatInt(car.OwnerID, 10),
			formatCSVTime(car.CreatedAt),
		})
	}
	return writeCSV(carCSVHeader, rows)
}
