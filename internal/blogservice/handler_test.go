package blogservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestEnvironment(t *testing.T) (*BlogService, *mongo.Database, *Owner, func() error) {
	db := common.TestDB(t)
	users := userservice.NewUserService(db, "test-secret", time.Hour)

	u, err := users.CreateUser(context.Background(), &userservice.CreateUserRequest{
		Username: "root",
		Name:     "Superuser",
		Password: "sekret",
	})
	require.NoError(t, err)

	owner := &Owner{ID: u.ID, Username: u.Username, Name: u.Name}

	cleanup := func() error {
		ctx := context.Background()

		_, err := db.Collection(common.BlogsCollection).DeleteMany(ctx, bson.D{})
		if err != nil {
			return err
		}

		_, err = db.Collection(common.UsersCollection).UpdateByID(ctx, owner.ID, bson.M{"$set": bson.M{"blogs": bson.A{}}})
		return err
	}

	return NewBlogService(db, users), db, owner, cleanup
}

// seedBlogs inserts the initial blogs owned by owner directly into the collection.
func seedBlogs(t *testing.T, db *mongo.Database, owner *Owner) []primitive.ObjectID {
	t.Helper()

	docs := make([]any, 0, len(initialBlogs))
	for _, b := range initialBlogs {
		b.UserID = owner.ID
		docs = append(docs, b)
	}

	res, err := db.Collection(common.BlogsCollection).InsertMany(context.Background(), docs)
	require.NoError(t, err)

	ids := make([]primitive.ObjectID, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		ids = append(ids, id.(primitive.ObjectID))
	}

	return ids
}

func countBlogs(t *testing.T, db *mongo.Database) int64 {
	t.Helper()

	count, err := db.Collection(common.BlogsCollection).CountDocuments(context.Background(), bson.D{})
	require.NoError(t, err)

	return count
}

func ownerBlogIDs(t *testing.T, db *mongo.Database, owner *Owner) []primitive.ObjectID {
	t.Helper()

	var doc struct {
		Blogs []primitive.ObjectID `bson:"blogs"`
	}
	err := db.Collection(common.UsersCollection).FindOne(context.Background(), bson.M{"_id": owner.ID}).Decode(&doc)
	require.NoError(t, err)

	return doc.Blogs
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func TestCreateBlog(t *testing.T) {
	s, db, owner, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		req         CreateBlogRequest
		wantLikes   int
		expectedErr string
	}{
		{
			name:      "valid blog",
			req:       CreateBlogRequest{Title: "Type wars", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com", Likes: intPtr(2)},
			wantLikes: 2,
		},
		{
			name:      "likes default to zero",
			req:       CreateBlogRequest{Title: "First class tests", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com"},
			wantLikes: 0,
		},
		{
			name:        "missing title",
			req:         CreateBlogRequest{Author: "Robert C. Martin", URL: "http://blog.cleancoder.com"},
			expectedErr: "missing title",
		},
		{
			name:        "missing author",
			req:         CreateBlogRequest{Title: "Type wars", URL: "http://blog.cleancoder.com"},
			expectedErr: "missing author",
		},
		{
			name:        "title is only a script",
			req:         CreateBlogRequest{Title: "<script>alert(1)</script>", Author: "Robert C. Martin"},
			expectedErr: "missing title",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})

			before := countBlogs(t, db)

			tc.req.Owner = owner
			blog, err := s.CreateBlog(ctx, &tc.req)
			if tc.expectedErr != "" {
				assert.Nil(t, blog)
				assert.ErrorAs(t, err, &common.ValidationError{})
				assert.Equal(t, tc.expectedErr, err.Error())
				assert.Equal(t, before, countBlogs(t, db))
				return
			}

			require.NoError(t, err)
			assert.False(t, blog.ID.IsZero())
			assert.Equal(t, tc.wantLikes, blog.Likes)
			assert.Equal(t, owner, blog.User)
			assert.Equal(t, before+1, countBlogs(t, db))
			assert.Contains(t, ownerBlogIDs(t, db, owner), blog.ID)

			stored, err := s.GetBlogByID(ctx, blog.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.req.Title, stored.Title)
			assert.Equal(t, tc.wantLikes, stored.Likes)
		})
	}
}

func TestCreateBlogUnknownOwner(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ghost := &Owner{ID: primitive.NewObjectID(), Username: "ghost"}

	blog, err := s.CreateBlog(context.Background(), &CreateBlogRequest{Title: "Type wars", Author: "Robert C. Martin", Owner: ghost})
	assert.Nil(t, blog)
	assert.ErrorIs(t, err, userservice.ErrInvalidToken)
	assert.NotErrorIs(t, err, common.ErrRecordNotFound)

	// the blog write is not rolled back
	assert.Equal(t, int64(1), countBlogs(t, db))
}

func TestGetBlogs(t *testing.T) {
	s, db, owner, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	blogs, err := s.GetBlogs(ctx)
	require.NoError(t, err)
	assert.NotNil(t, blogs)
	assert.Empty(t, blogs)

	seedBlogs(t, db, owner)

	blogs, err = s.GetBlogs(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, len(initialBlogs))

	titles := make([]string, 0, len(blogs))
	for _, b := range blogs {
		titles = append(titles, b.Title)
		require.NotNil(t, b.User)
		assert.Equal(t, "root", b.User.Username)
		assert.Equal(t, "Superuser", b.User.Name)
	}
	assert.Contains(t, titles, "React patterns")
}

func TestGetBlogByID(t *testing.T) {
	s, db, owner, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ids := seedBlogs(t, db, owner)

	testCases := []struct {
		name        string
		id          primitive.ObjectID
		wantTitle   string
		expectedErr error
	}{
		{name: "existing blog", id: ids[0], wantTitle: "React patterns"},
		{name: "missing blog", id: primitive.NewObjectID(), expectedErr: common.ErrRecordNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.GetBlogByID(context.Background(), tc.id)
			if tc.expectedErr != nil {
				assert.Nil(t, blog)
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantTitle, blog.Title)
			assert.Equal(t, owner, blog.User)
		})
	}
}

func TestUpdateBlog(t *testing.T) {
	s, db, owner, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ids := seedBlogs(t, db, owner)

	testCases := []struct {
		name        string
		id          primitive.ObjectID
		req         UpdateBlogRequest
		check       func(t *testing.T, b *Blog)
		expectedErr error
	}{
		{
			name: "likes",
			id:   ids[0],
			req:  UpdateBlogRequest{Likes: intPtr(99)},
			check: func(t *testing.T, b *Blog) {
				assert.Equal(t, 99, b.Likes)
				assert.Equal(t, "React patterns", b.Title)
			},
		},
		{
			name: "title is sanitized",
			id:   ids[1],
			req:  UpdateBlogRequest{Title: strPtr("Harmful<script>alert(1)</script>")},
			check: func(t *testing.T, b *Blog) {
				assert.Equal(t, "Harmful", b.Title)
				assert.Equal(t, 5, b.Likes)
			},
		},
		{
			name: "empty update",
			id:   ids[2],
			req:  UpdateBlogRequest{},
			check: func(t *testing.T, b *Blog) {
				assert.Equal(t, "Canonical string reduction", b.Title)
			},
		},
		{
			name:        "blank author",
			id:          ids[3],
			req:         UpdateBlogRequest{Author: strPtr("")},
			expectedErr: common.ValidationError{},
		},
		{
			name:        "missing blog",
			id:          primitive.NewObjectID(),
			req:         UpdateBlogRequest{Likes: intPtr(1)},
			expectedErr: common.ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := countBlogs(t, db)

			blog, err := s.UpdateBlog(context.Background(), tc.id, &tc.req)
			assert.Equal(t, before, countBlogs(t, db))

			if tc.expectedErr != nil {
				assert.Nil(t, blog)
				if _, ok := tc.expectedErr.(common.ValidationError); ok {
					assert.ErrorAs(t, err, &common.ValidationError{})
				} else {
					assert.ErrorIs(t, err, tc.expectedErr)
				}
				return
			}

			require.NoError(t, err)
			tc.check(t, blog)

			stored, err := s.GetBlogByID(context.Background(), tc.id)
			require.NoError(t, err)
			tc.check(t, stored)
		})
	}
}

func TestDeleteBlog(t *testing.T) {
	s, db, owner, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	created, err := s.CreateBlog(ctx, &CreateBlogRequest{Title: "Type wars", Author: "Robert C. Martin", Owner: owner})
	require.NoError(t, err)
	require.Contains(t, ownerBlogIDs(t, db, owner), created.ID)

	before := countBlogs(t, db)

	err = s.DeleteBlog(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before-1, countBlogs(t, db))
	assert.NotContains(t, ownerBlogIDs(t, db, owner), created.ID)

	_, err = s.GetBlogByID(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	err = s.DeleteBlog(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
	assert.Equal(t, before-1, countBlogs(t, db))
}

func TestGetStats(t *testing.T) {
	s, db, owner, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalLikes)
	assert.Nil(t, stats.MostLiked)

	seedBlogs(t, db, owner)

	stats, err = s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 36, stats.TotalLikes)
	require.NotNil(t, stats.MostLiked)
	assert.Equal(t, Favorite{Title: "Canonical string reduction", Author: "Edsger W. Dijkstra", Likes: 12}, *stats.MostLiked)
}
