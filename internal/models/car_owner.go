package models

import (
	"encoding/json"
	"strings"
	"time"
)

type CarOwner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *CarOwner) Prepare(now time.Time) {
	o.Name = strings.TrimSpace(o.Name)
	o.Email = NormalizeEmail(o.Email)
	o.CreatedAt = now.UTC()
}

type CreateCarOwnerRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=200"`
	Age   *int   `json:"age" binding:"required,min=0,max=150"`
	Email string `json:"email" binding:"required,email,max=254"`
}

// UnmarshalJSON trims the e-mail before the email validator sees it.
func (r *CreateCarOwnerRequest) UnmarshalJSON(data []byte) error {
	type plain CreateCarOwnerRequest
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	r.Email = strings.TrimSpace(r.Email)
	return nil
}

func (r CreateCarOwnerRequest) CarOwner() *CarOwner {
	owner := &CarOwner{Name: r.Name, Email: r.Email}
	if r.Age != nil {
		owner.Age = *r.Age
	}
	return owner
}

type CarOwnerUpdate struct {
	Name  *string `json:"name" binding:"omitempty,notblank,max=200"`
	Age   *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Email *string `json:"email" binding:"omitempty,email,max=254"`
}

func (u *CarOwnerUpdate) UnmarshalJSON(data []byte) error {
	type plain CarOwnerUpdate
	if err := json.Unmarshal(data, (*plain)(u)); err != nil {
		return err
	}
	u.Email = trimPtr(u.Email)
	return nil
}

func (u CarOwnerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Age == nil && u.Email == nil
}

// NormalizeEmail lower-cases and trims an address so the unique index
// compares addresses the way users expect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims the name and normalizes the e-mail of a patch.
func (u *CarOwnerUpdate) Normalize() {
	u.Name = trimPtr(u.Name)
	if u.Email != nil {
		email := NormalizeEmail(*u.Email)
		u.Email = &email
	}
}
