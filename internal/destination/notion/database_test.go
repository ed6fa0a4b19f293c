package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

func testClient(t *testing.T, handler http.Handler) *notionapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return notionapi.NewClient("secret-token", notionapi.WithHTTPClient(&http.Client{
		Transport: &rewriteTransport{target: target},
	}))
}

func TestCreateExerciseDatabase(t *testing.T) {
	t.Run("creates sibling database under the parent page", func(t *testing.T) {
		var createBody map[string]any
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Method == http.MethodGet && r.URL.Path == "/v1/databases/db-workouts":
				_, _ = w.Write([]byte(`{
					"object": "database", "id": "db-workouts",
					"parent": {"type": "page_id", "page_id": "page-9"}
				}`))
			case r.Method == http.MethodPost && r.URL.Path == "/v1/databases":
				raw, _ := io.ReadAll(r.Body)
				require.NoError(t, json.Unmarshal(raw, &createBody))
				_, _ = w.Write([]byte(`{"object": "database", "id": "db-exercises"}`))
			default:
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
		}))

		id, err := CreateExerciseDatabase(context.Background(), client, "db-workouts")

		require.NoError(t, err)
		assert.Equal(t, "db-exercises", id)

		parent := createBody["parent"].(map[string]any)
		assert.Equal(t, "page_id", parent["type"])
		assert.Equal(t, "page-9", parent["page_id"])

		title := createBody["title"].([]any)[0].(map[string]any)
		assert.Equal(t, "Exercise Progress", title["text"].(map[string]any)["content"])

		props := createBody["properties"].(map[string]any)
		for _, name := range []string{
			"Exercise", "Date", "Max Weight (kg)", "Total Volume (kg)",
			"Sets", "Total Reps", "Workout",
		} {
			assert.Contains(t, props, name)
		}
		assert.Contains(t, props["Exercise"], "title")
		assert.Contains(t, props["Workout"], "rich_text")
	})

	t.Run("refuses when the database is not inside a page", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"object": "database", "id": "db-workouts",
				"parent": {"type": "workspace", "workspace": true}
			}`))
		}))

		_, err := CreateExerciseDatabase(context.Background(), client, "db-workouts")

		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})

	t.Run("lookup failure surfaces as upstream error", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := CreateExerciseDatabase(context.Background(), client, "db-workouts")

		assert.ErrorIs(t, err, domain.ErrUpstream)
	})
}
