package userservice

import (
	"context"
	"errors"
	"time"

	"github.com/sushihentaime/bloglist/internal/common"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrAuthenticationFailure = errors.New("invalid username or password")
)

// NewUserService returns a service signing tokens with secret. Tokens live for
// tokenTTL; zero disables expiry.
func NewUserService(db *mongo.Database, secret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		m:        newUserModel(db),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// CreateUser validates the request, hashes the password and stores the user.
// A taken username is reported as a validation error.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	v := common.NewValidator()
	validateCreateUser(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: req.Username,
		Name:     req.Name,
	}

	err := u.setPassword(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateUsername):
			v.AddError("username", "username is taken")
			return nil, v.ValidationError()
		default:
			return nil, err
		}
	}

	u.Blogs = []BlogSummary{}

	return &u, nil
}

// LoginUser checks the credentials and issues a signed token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	validateCredentials(v, username, password)
	if !v.Valid() {
		return nil, ErrAuthenticationFailure
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.comparePassword(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := newToken(user, s.secret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &AuthToken{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// GetUserByToken resolves a bearer token to its user. A token whose user no
// longer exists is as invalid as a forged one.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	id, err := parseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	user, err := s.m.getUserByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return user, nil
}

// GetUsers returns all users with summaries of their blogs.
func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.getUsers(ctx)
}

// LinkBlog appends blogID to the user's blog list. The owner comes from a
// verified token, so a user that no longer exists reports ErrInvalidToken.
func (s *UserService) LinkBlog(ctx context.Context, userID, blogID primitive.ObjectID) error {
	err := s.m.pushBlog(ctx, userID, blogID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return ErrInvalidToken
		default:
			return err
		}
	}

	return nil
}

// UnlinkBlog removes blogID from the user's blog list.
func (s *UserService) UnlinkBlog(ctx context.Context, userID, blogID primitive.ObjectID) error {
	return s.m.pullBlog(ctx, userID, blogID)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
