package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationLike          = "like"
	NotificationComment       = "comment"
	NotificationNewFollower   = "new_follower"
	NotificationFollowRequest = "follow_request"
)

// Notification represents an activity event delivered to a recipient
type Notification struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID  uuid.UUID `json:"recipient_id" gorm:"type:uuid;index"`
	ActorID      uuid.UUID `json:"actor_id" gorm:"type:uuid;index"`
	Type         string    `json:"type" gorm:"size:30;index"`
	TargetPostID *string   `json:"target_post_id,omitempty" gorm:"size:24"` // Mongo ObjectID hex
	IsRead       bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`

	Actor Profile `json:"-" gorm:"foreignKey:ActorID;references:ID"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
