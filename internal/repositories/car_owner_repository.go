package repositories

import (
	"context"
	"database/sql"
	"errors"

	"crud_api/internal/database"
	"crud_api/internal/models"
)

const carOwnerColumns = `id, name, age, email, created_at`

type CarOwnerRepository struct {
	base
}

func NewCarOwnerRepository(db *database.DB) *CarOwnerRepository {
	return &CarOwnerRepository{base: base{q: db, dialect: db.Dialect}}
}

func (r *CarOwnerRepository) WithTx(tx *sql.Tx) *CarOwnerRepository {
	return &CarOwnerRepository{base: r.withTx(tx)}
}

func scanCarOwner(row rowScanner) (*models.CarOwner, error) {
	var (
		owner     models.CarOwner
		createdAt string
		err       error
	)
	if err := row.Scan(&owner.ID, &owner.Name, &owner.Age, &owner.Email, &createdAt); err != nil {
		return nil, err
	}
	if owner.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *CarOwnerRepository) List(ctx context.Context) ([]models.CarOwner, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+carOwnerColumns+` FROM car_owners ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := []models.CarOwner{}
	for rows.Next() {
		owner, err := scanCarOwner(rows)
		if err != nil {
			return nil, err
		}
		owners = append(owners, *owner)
	}

	return owners, rows.Err()
}

func (r *CarOwnerRepository) GetByID(ctx context.Context, id int64) (*models.CarOwner, error) {
	query := `SELECT ` + carOwnerColumns + ` FROM car_owners WHERE id = ?`

	owner, err := scanCarOwner(r.q.QueryRowContext(ctx, r.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return owner, nil
}

// Exists is the foreign key check used before a car references an owner.
func (r *CarOwnerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM car_owners WHERE id = ?)`
	if err := r.q.QueryRowContext(ctx, r.rebind(query), id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CarOwnerRepository) Create(ctx context.Context, owner *models.CarOwner) error {
	query := `
		INSERT INTO car_owners (name, age, email, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, r.rebind(query),
		owner.Name,
		owner.Age,
		owner.Email,
		formatTime(owner.CreatedAt),
	).Scan(&owner.ID)
}

// InsertIgnoringDuplicates inserts owner unless the e-mail is already taken.
// It reports whether a row was written. A conflict does not abort an
// enclosing PostgreSQL transaction, unlike a failed plain INSERT.
func (r *CarOwnerRepository) InsertIgnoringDuplicates(ctx context.Context, owner *models.CarOwner) (bool, error) {
	query := `
		INSERT INTO car_owners (name, age, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`

	err := r.q.QueryRowContext(ctx, r.rebind(query),
		owner.Name,
		owner.Age,
		owner.Email,
		formatTime(owner.CreatedAt),
	).Scan(&owner.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update reports false when there is no owner with id. An empty patch is a
// no-op that only checks existence.
func (r *CarOwnerRepository) Update(ctx context.Context, id int64, patch models.CarOwnerUpdate) (bool, error) {
	b := NewUpdateBuilder("car_owners")
	if patch.Name != nil {
		b.Set("name", *patch.Name)
	}
	if patch.Age != nil {
		b.Set("age", *patch.Age)
	}
	if patch.Email != nil {
		b.Set("email", *patch.Email)
	}
	if b.Len() == 0 {
		return r.Exists(ctx, id)
	}

	query, args, err := b.Build("id = ?", id)
	if err != nil {
		return false, err
	}

	result, err := r.q.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes the owner; their cars go with them (ON DELETE CASCADE).
func (r *CarOwnerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, r.rebind(`DELETE FROM car_owners WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
