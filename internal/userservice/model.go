package userservice

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

var (
	ErrDuplicateUsername = errors.New("duplicate username")
)

func newUserModel(db *mongo.Database) *DBModel {
	return &DBModel{
		users: db.Collection(common.UsersCollection),
		blogs: db.Collection(common.BlogsCollection),
	}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	if u.BlogIDs == nil {
		u.BlogIDs = []primitive.ObjectID{}
	}

	res, err := m.users.InsertOne(ctx, u)
	if err != nil {
		switch {
		case mongo.IsDuplicateKeyError(err):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	u.ID = id

	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	return m.findOne(ctx, bson.M{"username": username})
}

func (m *DBModel) getUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *DBModel) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var u User

	err := m.users.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// getUsers returns every user with the blogs listed in their blog ids.
func (m *DBModel) getUsers(ctx context.Context) ([]User, error) {
	cur, err := m.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}

	var ids []primitive.ObjectID
	for _, u := range users {
		ids = append(ids, u.BlogIDs...)
	}

	summaries := make(map[primitive.ObjectID]BlogSummary, len(ids))
	if len(ids) > 0 {
		opts := options.Find().SetProjection(bson.M{"title": 1, "author": 1, "url": 1})

		cur, err := m.blogs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
		if err != nil {
			return nil, err
		}

		var blogs []BlogSummary
		if err := cur.All(ctx, &blogs); err != nil {
			return nil, err
		}

		for _, b := range blogs {
			summaries[b.ID] = b
		}
	}

	for i := range users {
		users[i].Blogs = make([]BlogSummary, 0, len(users[i].BlogIDs))
		for _, id := range users[i].BlogIDs {
			if b, ok := summaries[id]; ok {
				users[i].Blogs = append(users[i].Blogs, b)
			}
		}
	}

	return users, nil
}

func (m *DBModel) pushBlog(ctx context.Context, userID, blogID primitive.ObjectID) error {
	res, err := m.users.UpdateByID(ctx, userID, bson.M{"$push": bson.M{"blogs": blogID}})
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

func (m *DBModel) pullBlog(ctx context.Context, userID, blogID primitive.ObjectID) error {
	_, err := m.users.UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"blogs": blogID}})
	return err
}
