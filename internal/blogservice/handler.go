package blogservice

import (
	"context"
	"fmt"

	"github.com/sushihentaime/bloglist/internal/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewBlogService returns a service that records blog ownership through owners.
func NewBlogService(db *mongo.Database, owners OwnerLinker) *BlogService {
	return &BlogService{m: newBlogModel(db), owners: owners}
}

// CreateBlog stores a new blog owned by req.Owner and appends it to the
// owner's blog list. Likes default to zero.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	req.Title = sanitizeText(req.Title)
	req.Author = sanitizeText(req.Author)
	req.URL = sanitizeText(req.URL)

	v := common.NewValidator()
	validateCreateBlog(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		UserID: req.Owner.ID,
	}
	if req.Likes != nil {
		blog.Likes = *req.Likes
	}

	err := s.m.insert(ctx, &blog)
	if err != nil {
		return nil, err
	}

	// The blog is already stored if linking fails; the two writes are not atomic.
	err = s.owners.LinkBlog(ctx, req.Owner.ID, blog.ID)
	if err != nil {
		return nil, fmt.Errorf("link blog %s to user %s: %w", blog.ID.Hex(), req.Owner.ID.Hex(), err)
	}

	owner := *req.Owner
	blog.User = &owner

	return &blog, nil
}

// GetBlogs returns all blogs with their owners.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.getBlogs(ctx)
}

func (s *BlogService) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	return s.m.getBlogByID(ctx, id)
}

// UpdateBlog replaces the fields set in req and returns the updated blog.
func (s *BlogService) UpdateBlog(ctx context.Context, id primitive.ObjectID, req *UpdateBlogRequest) (*Blog, error) {
	req.Title = sanitizeOptional(req.Title)
	req.Author = sanitizeOptional(req.Author)
	req.URL = sanitizeOptional(req.URL)

	v := common.NewValidator()
	validateUpdateBlog(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Author != nil {
		set["author"] = *req.Author
	}
	if req.URL != nil {
		set["url"] = *req.URL
	}
	if req.Likes != nil {
		set["likes"] = *req.Likes
	}

	return s.m.updateBlog(ctx, id, set)
}

// DeleteBlog removes the blog and drops it from its owner's blog list.
func (s *BlogService) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	blog, err := s.m.deleteBlog(ctx, id)
	if err != nil {
		return err
	}

	if blog.UserID.IsZero() {
		return nil
	}

	err = s.owners.UnlinkBlog(ctx, blog.UserID, blog.ID)
	if err != nil {
		return fmt.Errorf("unlink blog %s from user %s: %w", blog.ID.Hex(), blog.UserID.Hex(), err)
	}

	return nil
}

// GetStats computes the like aggregates over every stored blog.
func (s *BlogService) GetStats(ctx context.Context) (*Stats, error) {
	blogs, err := s.m.getBlogs(ctx)
	if err != nil {
		return nil, err
	}

	return newStats(blogs), nil
}
