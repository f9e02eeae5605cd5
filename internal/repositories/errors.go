package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a looked-up row or document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidOrder is returned when a reorder does not name every entry of
	// the list exactly once.
	ErrInvalidOrder = errors.New("entry ids must list every entry of the list exactly once")
)

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
