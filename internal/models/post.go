package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a blog post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      string             `json:"author_id" bson:"author_id"`
	Slug          string             `json:"slug" bson:"slug"`
	Title         string             `json:"title" bson:"title"`
	BannerURL     string             `json:"banner_url,omitempty" bson:"banner_url,omitempty"`
	Content       string             `json:"content" bson:"content"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreatePostRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=150"`
	Content   string `json:"content" validate:"required,min=1"`
	BannerURL string `json:"banner_url,omitempty" validate:"omitempty,url"`
}
