package services

import (
	"errors"

	"canteen-api/repository"
)

var (
	// ErrNotFound means the order, user, canteen or menu item does not exist.
	ErrNotFound = repository.ErrNotFound

	// ErrDuplicateUser means a concurrent first login inserted the same email first.
	ErrDuplicateUser = errors.New("user with this email already exists")

	// ErrOrderItems means the order row was stored but its cart lines were not.
	ErrOrderItems = errors.New("order stored without items")

	// ErrNotificationFailed means the state change was persisted but the email was not sent.
	ErrNotificationFailed = errors.New("notification failed after state change")
)
