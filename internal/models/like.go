package models

import (
	"time"

	"github.com/google/uuid"
)

// Like represents a like on a blog post
type Like struct {
	PostID    string    `json:"post_id" gorm:"size:24;primaryKey"` // MongoDB ObjectID as hex
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "post_likes" }
