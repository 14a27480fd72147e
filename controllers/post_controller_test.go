package controllers_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/models"
)

// smallGIF is a minimal valid GIF payload, enough to act as an image upload.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func (a *app) postMultipart(t *testing.T, path, token string, fields map[string]string, imageName string, image []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestCreatePostWithGroupAndImage(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	a.createGroup(t, "Forms", "forms")
	token := a.token(t, leo)

	w := a.postMultipart(t, "/create", token,
		map[string]string{"text": "Форма", "group": "forms"}, "small.gif", smallGIF)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, a.db.Preload("Group").Order("id DESC").First(&post).Error)
	assert.Equal(t, "Форма", post.Text)
	assert.Equal(t, leo.ID, post.AuthorID)
	require.NotNil(t, post.Group)
	assert.Equal(t, "forms", post.Group.Slug)
	require.NotEmpty(t, post.Image)
	assert.True(t, strings.HasPrefix(post.Image, "/static/uploads/"))

	// the stored file is fetchable from the upload root
	rel := strings.TrimPrefix(post.Image, "/static/uploads/")
	stored, err := os.ReadFile(filepath.Join(os.Getenv("UPLOAD_DIR"), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, smallGIF, stored)
}

func TestCreatePostForcesAuthorFromIdentity(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	mallory := a.createUser(t, "mallory")
	token := a.token(t, leo)

	// a forged author field in the payload is ignored
	w := a.postForm("/create", token, url.Values{
		"text":      {"mine"},
		"author_id": {fmt.Sprint(mallory.ID)},
	})
	require.Equal(t, http.StatusFound, w.Code)

	var post models.Post
	require.NoError(t, a.db.Order("id DESC").First(&post).Error)
	assert.Equal(t, leo.ID, post.AuthorID)
}

func TestCreatePostValidation(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	token := a.token(t, leo)

	w := a.postForm("/create", token, url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.postForm("/create", token, url.Values{"text": {"ok"}, "group": {"missing"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEditByNonAuthorIsSilentlyDenied(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	mallory := a.createUser(t, "mallory")
	post := a.createPost(t, leo, "original", nil, time.Now())

	detail := fmt.Sprintf("/posts/%d", post.ID)
	w := a.postForm(detail+"/edit", a.token(t, mallory), url.Values{"text": {"hacked"}})
	// not an error: the caller is routed to the read-only view
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	var reloaded models.Post
	require.NoError(t, a.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original", reloaded.Text)
}

func TestEditByAuthorPersists(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	post := a.createPost(t, leo, "original", nil, time.Now())

	detail := fmt.Sprintf("/posts/%d", post.ID)
	w := a.postForm(detail+"/edit", a.token(t, leo), url.Values{"text": {"updated"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detail, w.Header().Get("Location"))

	var reloaded models.Post
	require.NoError(t, a.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "updated", reloaded.Text)
}

func TestCommentOnMissingPostIs404(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	w := a.postForm("/posts/999/comment", a.token(t, leo), url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePostByAuthor(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	post := a.createPost(t, leo, "bye", nil, time.Now())

	w := a.postForm(fmt.Sprintf("/posts/%d/delete", post.ID), a.token(t, leo), url.Values{})
	require.Equal(t, http.StatusFound, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTimelineCacheServesStaleUntilFlushed(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	post := a.createPost(t, leo, "before", nil, time.Now())

	r1 := a.get("/", "")
	require.Equal(t, http.StatusOK, r1.Code)

	// mutate the store directly, bypassing the composer's flush
	require.NoError(t, a.db.Model(&models.Post{}).Where("id = ?", post.ID).
		Update("text", "after").Error)

	r2 := a.get("/", "")
	require.Equal(t, http.StatusOK, r2.Code)
	assert.Equal(t, r1.Body.String(), r2.Body.String(), "cached rendering is served stale")

	a.cache.Flush()

	r3 := a.get("/", "")
	require.Equal(t, http.StatusOK, r3.Code)
	assert.NotEqual(t, r1.Body.String(), r3.Body.String(), "flush exposes the new text")
	assert.Contains(t, r3.Body.String(), "after")
}

func TestEditThroughComposerInvalidatesCache(t *testing.T) {
	a := newApp(t)
	leo := a.createUser(t, "leo")
	post := a.createPost(t, leo, "before", nil, time.Now())

	r1 := a.get("/", "")
	require.Equal(t, http.StatusOK, r1.Code)

	detail := fmt.Sprintf("/posts/%d", post.ID)
	w := a.postForm(detail+"/edit", a.token(t, leo), url.Values{"text": {"after"}})
	require.Equal(t, http.StatusFound, w.Code)

	r2 := a.get("/", "")
	assert.Contains(t, r2.Body.String(), "after")
}
