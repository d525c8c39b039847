package habits

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrHabitNotFound        = errors.New("habit not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotAssessed          = errors.New("habit has no level")
)
