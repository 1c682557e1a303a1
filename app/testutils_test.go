package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const testSecret = "test-secret"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	return &Config{
		Port:          "3003",
		Environment:   "test",
		Version:       "test",
		MongoDatabase: "bloglist_test",
		Secret:        testSecret,
		TokenTTL:      time.Hour,
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApplication(t *testing.T) (*application, *mongo.Database) {
	db := common.TestDB(t)

	app := newApplication(newTestConfig(), newTestLogger(), db)

	t.Cleanup(func() {
		ctx := context.Background()
		_, err := db.Collection(common.BlogsCollection).DeleteMany(ctx, bson.D{})
		require.NoError(t, err)
		_, err = db.Collection(common.UsersCollection).DeleteMany(ctx, bson.D{})
		require.NoError(t, err)
	})

	return app, db
}

// do sends payload as JSON and decodes the response body into a generic value.
func (ts *testServer) do(t *testing.T, method, path string, token string, payload any) (int, http.Header, any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return readResponse(t, res)
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, any) {
	t.Helper()
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	if len(responseBody) == 0 {
		return res.StatusCode, res.Header, nil
	}

	var decoded any
	require.NoError(t, json.Unmarshal(responseBody, &decoded))

	return res.StatusCode, res.Header, decoded
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, any) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, any) {
	return ts.do(t, http.MethodGet, path, "", nil)
}

func (ts *testServer) put(t *testing.T, path string, payload any) (int, http.Header, any) {
	return ts.do(t, http.MethodPut, path, "", payload)
}

func (ts *testServer) delete(t *testing.T, path string) (int, http.Header, any) {
	return ts.do(t, http.MethodDelete, path, "", nil)
}

// errorMessage returns the "error" member of a decoded error body.
func errorMessage(t *testing.T, body any) string {
	t.Helper()

	m, ok := body.(map[string]any)
	require.True(t, ok, "expected an object, got %T", body)

	msg, _ := m["error"].(string)
	return msg
}
