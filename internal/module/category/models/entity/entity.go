package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeEvent  = "event"
	TypeSports = "sports"
)

type Category struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Type        string    `db:"type"`
	CreatedAt   time.Time `db:"created_at"`
}

func ValidType(t string) bool {
	return t == TypeEvent || t == TypeSports
}
