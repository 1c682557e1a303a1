package userservice

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultTokenTime time.Duration = time.Hour

	tokenIssuer = "bloglist"
	bcryptCost  = 12
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m        *DBModel
	secret   []byte
	tokenTTL time.Duration
}

type DBModel struct {
	users *mongo.Collection
	blogs *mongo.Collection
}

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Name         string               `bson:"name" json:"name"`
	PasswordHash []byte               `bson:"passwordHash" json:"-"`
	BlogIDs      []primitive.ObjectID `bson:"blogs" json:"-"`

	// Blogs is filled in when users are listed.
	Blogs []BlogSummary `bson:"-" json:"blogs"`
}

type BlogSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Author string             `bson:"author" json:"author"`
	URL    string             `bson:"url" json:"url"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=3"`
}

// AuthToken is handed out on login.
type AuthToken struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
