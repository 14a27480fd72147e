package controllers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/repositories"
	"github.com/yatube/yatube/utils"
)

const (
	// Timelines and profiles page at 10; the follow feed pages at 20,
	// matching the observed behavior of the original application.
	timelinePageSize   = 10
	followFeedPageSize = 20
)

// FeedController composes the read-only timeline views: global, per group,
// per author profile, post detail and the personalized follow feed.
type FeedController struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	comments repositories.CommentRepository
	graph    repositories.SocialGraph
	cache    *utils.TimelineCache
}

// NewFeedController creates a FeedController backed by the given stores.
func NewFeedController(
	posts repositories.PostRepository,
	groups repositories.GroupRepository,
	users repositories.UserRepository,
	comments repositories.CommentRepository,
	graph repositories.SocialGraph,
	cache *utils.TimelineCache,
) *FeedController {
	return &FeedController{
		posts:    posts,
		groups:   groups,
		users:    users,
		comments: comments,
		graph:    graph,
		cache:    cache,
	}
}

// Index serves the global timeline. Each rendered page is memoized in the
// timeline cache; writes flush the cache, so a hit may serve a rendering that
// predates a direct store mutation until the TTL runs out.
func (f *FeedController) Index(ctx *gin.Context) {
	// Entries are keyed by the clamped page number, so only pages that exist
	// can mint cache entries. In-range requests hit without touching the
	// store; an out-of-range request resolves against the store first and
	// then lands on the last page's entry.
	requested := utils.ResolvePageNumber(ctx.Query("page"), math.MaxInt)
	key := utils.TimelineKey(requested)
	if b, ok := f.cache.Get(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	page, err := fetchPage(f.posts.All, ctx.Query("page"), timelinePageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to list posts")
		return
	}
	if page.Number != requested {
		key = utils.TimelineKey(page.Number)
		if b, ok := f.cache.Get(key); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"page_obj": page}}
	if b, err := json.Marshal(wrapper); err == nil {
		f.cache.Set(key, b)
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}
	utils.Success(ctx, gin.H{"page_obj": page})
}

// GroupPosts serves one group's timeline, resolved by slug.
func (f *FeedController) GroupPosts(ctx *gin.Context) {
	group, err := f.groups.BySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load group")
		return
	}

	byGroup := func(limit, offset int) ([]models.Post, int64, error) {
		return f.posts.ByGroup(group.ID, limit, offset)
	}
	page, err := fetchPage(byGroup, ctx.Query("page"), timelinePageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to list group posts")
		return
	}

	utils.Success(ctx, gin.H{"group": group, "page_obj": page})
}

// Profile serves one author's posts plus whether the caller follows them.
// The flag is always false for anonymous callers.
func (f *FeedController) Profile(ctx *gin.Context) {
	author, err := f.users.ByUsername(ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load user")
		return
	}

	byAuthor := func(limit, offset int) ([]models.Post, int64, error) {
		return f.posts.ByAuthor(author.ID, limit, offset)
	}
	page, err := fetchPage(byAuthor, ctx.Query("page"), timelinePageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to list user posts")
		return
	}

	following := false
	if viewerID, ok := getUserID(ctx); ok {
		if f2, err := f.graph.IsFollowing(viewerID, author.ID); err == nil {
			following = f2
		}
	}

	utils.Success(ctx, gin.H{"author": author, "page_obj": page, "following": following})
}

// PostDetail serves a single post with its comments.
func (f *FeedController) PostDetail(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40412, "post not found")
		return
	}
	post, err := f.posts.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40412, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to load post")
		return
	}

	comments, err := f.comments.ByPost(post.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to load comments")
		return
	}

	utils.Success(ctx, gin.H{"post": post, "comments": comments})
}

// FollowIndex serves the personalized feed of posts by followed authors.
// Requires an authenticated identity; the route guard redirects anonymous
// callers before this handler runs.
func (f *FeedController) FollowIndex(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	authorIDs, err := f.graph.FollowedAuthorIDs(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to load subscriptions")
		return
	}

	byAuthors := func(limit, offset int) ([]models.Post, int64, error) {
		return f.posts.ByAuthorSet(authorIDs, limit, offset)
	}
	page, err := fetchPage(byAuthors, ctx.Query("page"), followFeedPageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to list follow feed")
		return
	}

	utils.Success(ctx, gin.H{"page_obj": page})
}

// fetchPage resolves the requested page number against the filtered set and
// fetches one slice. A request past the last page is clamped and refetched.
func fetchPage(query func(limit, offset int) ([]models.Post, int64, error), raw string, size int) (utils.Page, error) {
	page := utils.ResolvePageNumber(raw, math.MaxInt)
	posts, total, err := query(size, (page-1)*size)
	if err != nil {
		return utils.Page{}, err
	}

	if totalPages := utils.PageCount(total, size); page > totalPages {
		page = totalPages
		posts, total, err = query(size, (page-1)*size)
		if err != nil {
			return utils.Page{}, err
		}
	}

	return utils.NewPage(posts, page, size, total), nil
}
