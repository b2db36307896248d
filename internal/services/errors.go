package services

import "errors"

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrCarOwnerNotFound  = errors.New("car owner not found")
	ErrCarNotFound       = errors.New("car not found")
	ErrOwnerDoesNotExist = errors.New("owner_id does not reference an existing car owner")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrInvalidCSV        = errors.New("invalid CSV")
)
