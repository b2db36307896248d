package models

import (
	"strings"
	"time"
)

type Car struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Color     string    `json:"color"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Car) Prepare(now time.Time) {
	c.Brand = strings.TrimSpace(c.Brand)
	c.Model = strings.TrimSpace(c.Model)
	c.Color = strings.TrimSpace(c.Color)
	c.CreatedAt = now.UTC()
}

type CreateCarRequest struct {
	Brand   string `json:"brand" binding:"required,notblank,max=100"`
	Model   string `json:"model" binding:"required,notblank,max=100"`
	Year    int    `json:"year" binding:"required,min=1886,max=2100"`
	Color   string `json:"color" binding:"required,notblank,max=50"`
	OwnerID int64  `json:"owner_id" binding:"required,gt=0"`
}

func (r CreateCarRequest) Car() *Car {
	return &Car{
		Brand:   r.Brand,
		Model:   r.Model,
		Year:    r.Year,
		Color:   r.Color,
		OwnerID: r.OwnerID,
	}
}

type CarUpdate struct {
	Brand   *string `json:"brand" binding:"omitempty,notblank,max=100"`
	Model   *string `json:"model" binding:"omitempty,notblank,max=100"`
	Year    *int    `json:"year" binding:"omitempty,min=1886,max=2100"`
	Color   *string `json:"color" binding:"omitempty,notblank,max=50"`
	OwnerID *int64  `json:"owner_id" binding:"omitempty,gt=0"`
}

func (u CarUpdate) IsEmpty() bool {
	return u.Brand == nil && u.Model == nil && u.Year == nil && u.Color == nil && u.OwnerID == nil
}

func (u *CarUpdate) Normalize() {
	u.Brand = trimPtr(u.Brand)
	u.Model = trimPtr(u.Model)
	u.Color = trimPtr(u.Color)
}
