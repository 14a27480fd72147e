package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yatube/yatube/config"
	"github.com/yatube/yatube/middleware"
	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/repositories"
	"github.com/yatube/yatube/utils"
)

// maxImageSize bounds post image uploads.
const maxImageSize = 20 * 1024 * 1024

// postForm is the validated payload for creating or editing a post. Any
// author field a client might send is ignored; authorship always comes from
// the request identity.
type postForm struct {
	Text  string `form:"text" json:"text"`
	Group string `form:"group" json:"group"`
}

// PostController owns the write paths: posts, comments and their images.
type PostController struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	comments repositories.CommentRepository
	cache    *utils.TimelineCache
}

// NewPostController creates a new PostController instance.
func NewPostController(
	posts repositories.PostRepository,
	groups repositories.GroupRepository,
	comments repositories.CommentRepository,
	cache *utils.TimelineCache,
) *PostController {
	return &PostController{posts: posts, groups: groups, comments: comments, cache: cache}
}

// CreatePostForm returns the context needed to render the post form: the
// selectable groups.
func (p *PostController) CreatePostForm(ctx *gin.Context) {
	groups, err := p.groups.All()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// CreatePost creates a post owned by the authenticated identity and sends the
// caller to their profile, as the original flow does.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	var form postForm
	_ = ctx.ShouldBind(&form)

	text := utils.Sanitize(strings.TrimSpace(form.Text))
	if text == "" {
		respondFormError(ctx, 40021, "text cannot be empty", form)
		return
	}

	groupID, err := p.resolveGroup(form.Group)
	if err != nil {
		respondFormError(ctx, 40022, "unknown group", form)
		return
	}

	imagePath, err := p.saveImage(ctx, userID)
	if err != nil {
		respondFormError(ctx, 40023, err.Error(), form)
		return
	}

	post := models.Post{
		AuthorID: userID,
		GroupID:  groupID,
		Text:     text,
		Image:    imagePath,
	}
	if err := p.posts.Create(&post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create post")
		return
	}

	p.cache.Flush()

	username, _ := getUsername(ctx)
	ctx.Redirect(http.StatusFound, "/profile/"+username)
}

// EditPostForm returns the form context for editing. Non-authors are routed
// to the read-only detail view instead of an error.
func (p *PostController) EditPostForm(ctx *gin.Context) {
	post, denied := p.authorizeEdit(ctx)
	if post == nil {
		return
	}
	if denied {
		ctx.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(int(post.ID)))
		return
	}

	groups, err := p.groups.All()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load groups")
		return
	}
	utils.Success(ctx, gin.H{"post": post, "groups": groups, "is_edit": true})
}

// EditPost updates a post's text, group and image. An edit attempt by anyone
// but the author is silently denied with a redirect to the detail view.
func (p *PostController) EditPost(ctx *gin.Context) {
	post, denied := p.authorizeEdit(ctx)
	if post == nil {
		return
	}
	detail := "/posts/" + strconv.Itoa(int(post.ID))
	if denied {
		ctx.Redirect(http.StatusFound, detail)
		return
	}

	var form postForm
	_ = ctx.ShouldBind(&form)

	text := utils.Sanitize(strings.TrimSpace(form.Text))
	if text == "" {
		respondFormError(ctx, 40024, "text cannot be empty", form)
		return
	}

	groupID, err := p.resolveGroup(form.Group)
	if err != nil {
		respondFormError(ctx, 40025, "unknown group", form)
		return
	}

	imagePath, err := p.saveImage(ctx, post.AuthorID)
	if err != nil {
		respondFormError(ctx, 40026, err.Error(), form)
		return
	}

	post.Text = text
	post.GroupID = groupID
	if imagePath != "" {
		post.Image = imagePath
	}
	if err := p.posts.Update(post); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update post")
		return
	}

	p.cache.Flush()
	ctx.Redirect(http.StatusFound, detail)
}

// DeletePost removes the caller's own post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}
	detail := "/posts/" + strconv.Itoa(int(post.ID))
	if post.AuthorID != userID {
		ctx.Redirect(http.StatusFound, detail)
		return
	}

	if err := p.posts.Delete(post.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete post")
		return
	}

	p.cache.Flush()
	username, _ := getUsername(ctx)
	ctx.Redirect(http.StatusFound, "/profile/"+username)
}

// AddComment attaches a comment to a post. The comment author is always the
// request identity; the caller is sent back to the detail view.
func (p *PostController) AddComment(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	post, err := p.loadPost(ctx)
	if err != nil {
		return
	}

	var form struct {
		Text string `form:"text" json:"text"`
	}
	_ = ctx.ShouldBind(&form)

	text := utils.Sanitize(strings.TrimSpace(form.Text))
	if text == "" {
		utils.Respond(ctx, http.StatusBadRequest, 40027, "text cannot be empty", gin.H{"form": form})
		return
	}

	comment := models.Comment{PostID: post.ID, AuthorID: userID, Text: text}
	if err := p.comments.Create(&comment); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create comment")
		return
	}

	ctx.Redirect(http.StatusFound, "/posts/"+strconv.Itoa(int(post.ID)))
}

// authorizeEdit loads the post from the id param and decides whether the
// caller may edit it. A nil post means the response is already written;
// denied means route to the read view.
func (p *PostController) authorizeEdit(ctx *gin.Context) (post *models.Post, denied bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40123, "unauthorized")
		return nil, false
	}
	post, err := p.loadPost(ctx)
	if err != nil {
		return nil, false
	}
	return post, post.AuthorID != userID
}

// loadPost resolves the :id path param, writing the 404 itself on failure.
func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, error) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40413, "post not found")
		return nil, gorm.ErrRecordNotFound
	}
	post, err := p.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40413, "post not found")
		} else {
			utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to load post")
		}
		return nil, err
	}
	return post, nil
}

// resolveGroup maps an optional group slug to its ID.
func (p *PostController) resolveGroup(slug string) (*uint, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	group, err := p.groups.BySlug(slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// saveImage stores an optional multipart image under the upload directory and
// returns its public path. No file attached is not an error.
func (p *PostController) saveImage(ctx *gin.Context, userID uint) (string, error) {
	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		return "", nil
	}
	defer file.Close()

	if header.Size > maxImageSize {
		return "", fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}

	return storeUpload(file, header, userID)
}

func storeUpload(file multipart.File, header *multipart.FileHeader, userID uint) (string, error) {
	cfg := config.Get()
	now := time.Now()
	subDir := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	baseDir := filepath.Join(cfg.UploadDir, subDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	ext := filepath.Ext(filepath.Base(header.Filename))
	name := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), ext)
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxImageSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("write image: %w", err)
	}
	if written > maxImageSize {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("image exceeds %d bytes", maxImageSize)
	}

	return "/" + path.Join("static", "uploads", filepath.ToSlash(subDir), name), nil
}

// respondFormError redisplays the form: the submitted fields come back with
// the validation message.
func respondFormError(ctx *gin.Context, code int, message string, form postForm) {
	utils.Respond(ctx, http.StatusBadRequest, code, message, gin.H{"form": form})
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func getUsername(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return "", false
	}
	name, _ := value.(string)
	return name, name != ""
}

func isAdmin(ctx *gin.Context) bool {
	uname, ok := getUsername(ctx)
	if !ok {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}
