package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/routes"
	"github.com/yatube/yatube/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("ADMIN_USERNAMES", "admin")
	dir, err := os.MkdirTemp("", "yatube-uploads")
	if err != nil {
		panic(err)
	}
	os.Setenv("UPLOAD_DIR", dir)
	os.Setenv("GIN_PATH", filepath.Join(dir, "gin.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type app struct {
	router *gin.Engine
	db     *gorm.DB
	cache  *utils.TimelineCache
}

func newApp(t *testing.T) *app {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{},
	))

	cache := utils.NewTimelineCache(nil, 20*time.Second)
	return &app{router: routes.SetupRouter(db, cache), db: db, cache: cache}
}

func (a *app) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username}
	require.NoError(t, a.db.Create(user).Error)
	return user
}

func (a *app) createGroup(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug}
	require.NoError(t, a.db.Create(group).Error)
	return group
}

func (a *app) createPost(t *testing.T, author *models.User, text string, groupID *uint, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: author.ID, GroupID: groupID, Text: text, CreatedAt: at}
	require.NoError(t, a.db.Create(post).Error)
	return post
}

func (a *app) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *app) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) postForm(path, token string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors the uniform JSON response shape.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type postJSON struct {
	ID     uint   `json:"id"`
	Text   string `json:"text"`
	Image  string `json:"image"`
	Author struct {
		Username string `json:"username"`
	} `json:"author"`
	Group *struct {
		Slug string `json:"slug"`
	} `json:"group"`
}

type pageJSON struct {
	Items      []postJSON `json:"items"`
	Number     int        `json:"page"`
	Size       int        `json:"page_size"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"total_pages"`
	HasNext    bool       `json:"has_next"`
	HasPrev    bool       `json:"has_prev"`
}
