package repositories

import (
	"context"
	"database/sql"
	"errors"

	"crud_api/internal/database"
	"crud_api/internal/models"
)

const carColumns = `id, brand, model, year, color, owner_id, created_at`

type CarRepository struct {
	base
}

func NewCarRepository(db *database.DB) *CarRepository {
	return &CarRepository{base: base{q: db, dialect: db.Dialect}}
}

func (r *CarRepository) WithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{base: r.withTx(tx)}
}

func scanCar(row rowScanner) (*models.Car, error) {
	var (
		car       models.Car
		createdAt string
		err       error
	)
	if err := row.Scan(&car.ID, &car.Brand, &car.Model, &car.Year, &car.Color, &car.OwnerID, &createdAt); err != nil {
		return nil, err
	}
	if car.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &car, nil
}

// List returns cars ordered by id, only those of ownerID when it is set.
func (r *CarRepository) List(ctx context.Context, ownerID *int64) ([]models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars`
	var args []any
	if ownerID != nil {
		query += ` WHERE owner_id = ?`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}

	return cars, rows.Err()
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = ?`

	car, err := scanCar(r.q.QueryRowContext(ctx, r.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return car, nil
}

func (r *CarRepository) Create(ctx context.Context, car *models.Car) error {
	query := `
		INSERT INTO cars (brand, model, year, color, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	return r.q.QueryRowContext(ctx, r.rebind(query),
		car.Brand,
		car.Model,
		car.Year,
		car.Color,
		car.OwnerID,
		formatTime(car.CreatedAt),
	).Scan(&car.ID)
}

func (r *CarRepository) exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM cars WHERE id = ?)`
	if err := r.q.QueryRowContext(ctx, r.rebind(query), id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CarRepository) Update(ctx context.Context, id int64, patch models.CarUpdate) (bool, error) {
	b := NewUpdateBuilder("cars")
	if patch.Brand != nil {
		b.Set("brand", *patch.Brand)
	}
	if patch.Model != nil {
		b.Set("model", *patch.Model)
	}
	if patch.Year != nil {
		b.Set("year", *patch.Year)
	}
	if patch.Color != nil {
		b.Set("color", *patch.Color)
	}
	if patch.OwnerID != nil {
		b.Set("owner_id", *patch.OwnerID)
	}
	if b.Len() == 0 {
		return r.exists(ctx, id)
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

func (r *CarRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, r.rebind(`DELETE FROM cars WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
