package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wepcomic/wepcomic-term/internal/logger"
	"github.com/wepcomic/wepcomic-term/internal/models"
)

func testClient(t *testing.T, token string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, StaticToken(token), logger.Get())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantHeader string
	}{
		{"token attached", "tok-123", "Bearer tok-123"},
		{"anonymous sends no header", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, tt.token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantHeader, r.Header.Get("Authorization"))
				fmt.Fprint(w, `[]`)
			}))

			_, err := client.FavoriteIDs(context.Background())
			require.NoError(t, err)
		})
	}
}

func TestLoginDecodesFlatUser(t *testing.T) {
	client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"u1","username":"ana","email":"ana@example.org","role":"MODERATOR","token":"jwt-abc"}`)
	}))

	user, err := client.Login(context.Background(), "ana@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, "jwt-abc", user.Token)
	assert.True(t, user.CanModerate())
}

func TestLoginBadCredentials(t *testing.T) {
	client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Credenciales inválidas"}`, http.StatusUnauthorized)
	}))

	_, err := client.Login(context.Background(), "ana@example.org", "wrong")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestChangePassword(t *testing.T) {
	client := testClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/me/password", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "old-pass", body["currentPassword"])
		assert.Equal(t, "new-pass", body["newPassword"])
	}))

	require.NoError(t, client.ChangePassword(context.Background(), "old-pass", "new-pass"))
}

func TestGetChapterPagesShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "bare url array",
			body: `["https://cdn/p1.jpg","https://cdn/p2.jpg"]`,
			want: []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg"},
		},
		{
			name: "page object envelope",
			body: `{"data":[{"imageUrl":"https://cdn/p1.jpg"},{"imageUrl":"https://cdn/p2.jpg"}]}`,
			want: []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg"},
		},
		{
			name: "unknown shape degrades to empty",
			body: `{"pages":12}`,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/mangas/c123/chapters/ch-9/pages", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))

			pages, err := client.GetChapterPages(context.Background(), "c123", "ch-9")
			require.NoError(t, err)
			assert.Equal(t, tt.want, pages)
		})
	}
}

func TestGetUploadedChapterDefaults(t *testing.T) {
	client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id":"c123","title":"Obra local","author":"","synopsis":"","coverUrl":"",
			"chapters":[
				{"id":"ch-1","chapterNumber":1,"title":"","language":"es"},
				{"id":"ch-2","chapterNumber":2.5,"title":"Final","language":"es"}
			]
		}`)
	}))

	comic, err := client.GetUploaded(context.Background(), "c123")
	require.NoError(t, err)
	assert.Equal(t, "Obra local", comic.Title)
	assert.Equal(t, models.PlaceholderAuthor, comic.Author)
	assert.True(t, comic.HasAvailableChapters)

	require.Len(t, comic.Chapters, 2)
	// Newest first, with the number as the fallback title.
	assert.Equal(t, "Final", comic.Chapters[0].Title)
	assert.Equal(t, "Capítulo 1", comic.Chapters[1].Title)
	assert.Equal(t, models.SourceLocal, comic.Chapters[0].Source)
}

func TestListUploadedEnvelope(t *testing.T) {
	client := testClient(t, "", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "false", r.URL.Query().Get("showNsfw"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data":[{"id":"c1","title":"Uno"},{"id":"c2","title":"Dos"}],
			"pagination":{"page":2,"totalPages":5,"total":42}
		}`)
	}))

	comics, pagination, err := client.ListUploaded(context.Background(), 2, 10, "", false)
	require.NoError(t, err)
	assert.Len(t, comics, 2)
	require.NotNil(t, pagination)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 5, pagination.TotalPages)
}

func TestLockMangaConflict(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{
			name:        "server message wins",
			body:        `{"message":"Bloqueado por mod2"}`,
			wantMessage: "Bloqueado por mod2",
		},
		{
			name:        "empty body falls back to the default",
			body:        ``,
			wantMessage: "Este manga está siendo revisado por otro moderador.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/admin/review/manga/c123/lock", r.URL.Path)
				w.WriteHeader(http.StatusConflict)
				fmt.Fprint(w, tt.body)
			}))

			err := client.LockManga(context.Background(), "c123")
			require.Error(t, err)

			var conflict *LockConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.wantMessage, conflict.Message)
		})
	}
}

func TestLockMangaOtherErrorsPassThrough(t *testing.T) {
	client := testClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.LockManga(context.Background(), "c123")
	require.Error(t, err)

	var conflict *LockConflictError
	assert.False(t, errors.As(err, &conflict))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestQueueEnvelope(t *testing.T) {
	client := testClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/pending-edits", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data":[{"id":"c1","title":"Obra","lastEditedBy":{"username":"uploader1"}}],
			"pagination":{"page":3,"totalPages":3,"total":21}
		}`)
	}))

	result, err := client.PendingEdits(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	require.NotNil(t, result.Data[0].EditedBy)
	assert.Equal(t, "uploader1", result.Data[0].EditedBy.Username)
	assert.False(t, result.HasMore())
}

func TestFavoriteIDsBareArray(t *testing.T) {
	client := testClient(t, "tok", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/favorites/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `["c1","a1b2c3d4-e5f6-7890-abcd-ef1234567890"]`)
	}))

	ids, err := client.FavoriteIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "a1b2c3d4-e5f6-7890-abcd-ef1234567890"}, ids)
}
