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

var carOwnerCSVHeader = []string{"id", "name", "age", "email", "created_at"}

type CarOwnerService struct {
	db        *database.DB
	ownerRepo *repositories.CarOwnerRepository
	now       func() time.Time
}

func NewCarOwnerService(db *database.DB, ownerRepo *repositories.CarOwnerRepository) *CarOwnerService {
	return &CarOwnerService{
		db:        db,
		ownerRepo: ownerRepo,
		now:       time.Now,
	}
}

func (s *CarOwnerService) ListCarOwners(ctx context.Context) ([]models.CarOwner, error) {
	owners, err := s.ownerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list car owners: %w", err)
	}
	return owners, nil
}

func (s *CarOwnerService) GetCarOwner(ctx context.Context, id int64) (*models.CarOwner, error) {
	owner, err := s.ownerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get car owner: %w", err)
	}
	if owner == nil {
		return nil, ErrCarOwnerNotFound
	}
	return owner, nil
}

func (s *CarOwnerService) CreateCarOwner(ctx context.Context, req models.CreateCarOwnerRequest) (*models.CarOwner, error) {
	owner := req.CarOwner()
	owner.Prepare(s.now())

	if err := s.ownerRepo.Create(ctx, owner); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to save car owner: %w", err)
	}
	return owner, nil
}

// UpdateCarOwner applies a partial update. An empty patch returns the owner
// unchanged.
func (s *CarOwnerService) UpdateCarOwner(ctx context.Context, id int64, patch models.CarOwnerUpdate) (*models.CarOwner, error) {
	if patch.IsEmpty() {
		return s.GetCarOwner(ctx, id)
	}
	patch.Normalize()

	ok, err := s.ownerRepo.Update(ctx, id, patch)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update car owner: %w", err)
	}
	if !ok {
		return nil, ErrCarOwnerNotFound
	}
	return s.GetCarOwner(ctx, id)
}

// DeleteCarOwner removes the owner together with their cars.
func (s *CarOwnerService) DeleteCarOwner(ctx context.Context, id int64) error {
	ok, err := s.ownerRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete car owner: %w", err)
	}
	if !ok {
		return ErrCarOwnerNotFound
	}
	return nil
}

// ImportCSV appends owners from a name,age,email file. Invalid rows and
// e-mails that are already registered are skipped and reported.
func (s *CarOwnerService) ImportCSV(ctx context.Context, content []byte) (*models.ImportResult, error) {
	records, err := readCSV(content, []string{"name", "age", "email"})
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	collector := newImportCollector(now)

	type pending struct {
		line  int
		owner *models.CarOwner
	}
	var owners []pending
	for _, rec := range records {
		age, err := strconv.Atoi(rec.get("age"))
		if err != nil {
			collector.skip(rec.line, "age must be an integer")
			continue
		}
		req := models.CreateCarOwnerRequest{
			Name:  rec.get("name"),
			Age:   &age,
			Email: rec.get("email"),
		}
		if err := utils.ValidateStruct(req); err != nil {
			collector.skipInvalid(rec.line, err)
			continue
		}
		owner := req.CarOwner()
		owner.Prepare(now)
		owners = append(owners, pending{line: rec.line, owner: owner})
	}

	var duplicates []int
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.ownerRepo.WithTx(tx)
		for _, p := range owners {
			inserted, err := repo.InsertIgnoringDuplicates(ctx, p.owner)
			if err != nil {
				return err
			}
			if !inserted {
				duplicates = append(duplicates, p.line)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import car owners: %w", err)
	}

	for _, line := range duplicates {
		collector.skip(line, ErrEmailTaken.Error())
	}
	collector.imported = len(owners) - len(duplicates)
	return collector.result("car owners"), nil
}

func (s *CarOwnerService) ExportCSV(ctx context.Context) ([]byte, error) {
	owners, err := s.ListCarOwners(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(owners))
	for _, owner := range owners {
		rows = append(rows, []string{
			strconv.FormatInt(owner.ID, 10),
			owner.Name,
			strconv.Itoa(owner.Age),
			owner.Email,
			formatCSVTime(owner.CreatedAt),
		})
	}
	return writeCSV(carOwnerCSVHeader, rows)
}
