package blogservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/sushihentaime/bloglist/internal/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func newBlogModel(db *mongo.Database) *BlogModel {
	return &BlogModel{
		blogs: db.Collection(common.BlogsCollection),
		users: db.Collection(common.UsersCollection),
	}
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	res, err := m.blogs.InsertOne(ctx, blog)
	if err != nil {
		return err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	blog.ID = id

	return nil
}

// getBlogs returns every blog with its owner resolved.
func (m *BlogModel) getBlogs(ctx context.Context) ([]Blog, error) {
	cur, err := m.blogs.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	blogs := []Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, err
	}

	if err := m.populateOwners(ctx, blogs); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) getBlogByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	var blog Blog

	err := m.blogs.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	blogs := []Blog{blog}
	if err := m.populateOwners(ctx, blogs); err != nil {
		return nil, err
	}

	return &blogs[0], nil
}

// updateBlog applies set to the blog and returns the document as stored afterwards.
func (m *BlogModel) updateBlog(ctx context.Context, id primitive.ObjectID, set bson.M) (*Blog, error) {
	if len(set) == 0 {
		return m.getBlogByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var blog Blog
	err := m.blogs.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&blog)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	blogs := []Blog{blog}
	if err := m.populateOwners(ctx, blogs); err != nil {
		return nil, err
	}

	return &blogs[0], nil
}

// deleteBlog removes the blog and returns it so the caller can unlink the owner.
func (m *BlogModel) deleteBlog(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	var blog Blog

	err := m.blogs.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// populateOwners resolves the owner projection of every blog with a single query.
func (m *BlogModel) populateOwners(ctx context.Context, blogs []Blog) error {
	seen := make(map[primitive.ObjectID]bool)

	var ids []primitive.ObjectID
	for _, b := range blogs {
		if b.UserID.IsZero() || seen[b.UserID] {
			continue
		}
		seen[b.UserID] = true
		ids = append(ids, b.UserID)
	}

	if len(ids) == 0 {
		return nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1, "name": 1})

	cur, err := m.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return err
	}

	var owners []Owner
	if err := cur.All(ctx, &owners); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]Owner, len(owners))
	for _, o := range owners {
		byID[o.ID] = o
	}

	for i := range blogs {
		if o, ok := byID[blogs[i].UserID]; ok {
			blogs[i].User = &o
		}
	}

	return nil
}
