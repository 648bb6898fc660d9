package persistent

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"social-feed/services/social/internal/entity"

	"gorm.io/gorm"
)

// isDuplicate reports a unique constraint violation. TranslateError covers
// the registered drivers; the message check catches drivers that do not
// translate.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// wrap annotates err with op, turning store timeouts and dropped
// connections into entity.ErrServiceUnavailable.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w: %w", op, entity.ErrServiceUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
