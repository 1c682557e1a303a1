package blogservice

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Blog struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Author string             `bson:"author" json:"author"`
	URL    string             `bson:"url" json:"url"`
	Likes  int                `bson:"likes" json:"likes"`
	UserID primitive.ObjectID `bson:"user,omitempty" json:"-"`

	// User is the owner projection, resolved from UserID on reads.
	User *Owner `bson:"-" json:"user,omitempty"`
}

// Owner is the part of a user exposed alongside their blogs.
type Owner struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Name     string             `bson:"name" json:"name"`
}

// Favorite is the projection returned by MostLiked.
type Favorite struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Likes  int    `json:"likes"`
}

type Stats struct {
	TotalLikes int       `json:"total_likes"`
	MostLiked  *Favorite `json:"most_liked"`
}

type CreateBlogRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	URL    string `json:"url"`
	Likes  *int   `json:"likes"`
	Owner  *Owner `json:"-"`
}

// UpdateBlogRequest replaces only the fields that are set.
type UpdateBlogRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	URL    *string `json:"url"`
	Likes  *int    `json:"likes"`
}

// OwnerLinker keeps the owner's list of blogs in step with the blogs collection.
type OwnerLinker interface {
	LinkBlog(ctx context.Context, userID, blogID primitive.ObjectID) error
	UnlinkBlog(ctx context.Context, userID, blogID primitive.ObjectID) error
}

type BlogModel struct {
	blogs *mongo.Collection
	users *mongo.Collection
}

type BlogService struct {
	m      *BlogModel
	owners OwnerLinker
}
