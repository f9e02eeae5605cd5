package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FollowPending  = "pending"
	FollowAccepted = "accepted"

	// FollowNone is reported when no row exists between viewer and profile.
	FollowNone = "not_following"
)

// Follow is a follower -> following edge. Private profiles receive it as
// pending until the owner approves.
type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;primaryKey"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;primaryKey;index"`
	Status      string    `json:"status" gorm:"size:10;default:'accepted';index"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "followers" }

// FollowRequestWithProfile is a pending follow joined with the requester.
type FollowRequestWithProfile struct {
	Follow
	Follower Profile `json:"follower" gorm:"foreignKey:FollowerID;references:ID"`
}

func (FollowRequestWithProfile) TableName() string { return "followers" }
