package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateDateRange checks that start is not after end. Zero values are open bounds.
func ValidateDateRange(start, end time.Time) error {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return fmt.Errorf("%w: start %s is after end %s",
			apperrors.ErrInvalidDateRange, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return nil
}
