package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yatube/yatube/repositories"
	"github.com/yatube/yatube/utils"
)

// FollowController manages follow edges between the caller and other authors.
type FollowController struct {
	users repositories.UserRepository
	graph repositories.SocialGraph
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(users repositories.UserRepository, graph repositories.SocialGraph) *FollowController {
	return &FollowController{users: users, graph: graph}
}

// ProfileFollow subscribes the caller to an author's posts and returns to the
// author's profile. Following yourself or someone you already follow changes
// nothing and is not an error.
func (f *FollowController) ProfileFollow(ctx *gin.Context) {
	f.mutateEdge(ctx, f.graph.Follow)
}

// ProfileUnfollow removes the subscription. Unfollowing someone you never
// followed is a no-op.
func (f *FollowController) ProfileUnfollow(ctx *gin.Context) {
	f.mutateEdge(ctx, f.graph.Unfollow)
}

func (f *FollowController) mutateEdge(ctx *gin.Context, op func(userID, authorID uint) error) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	username := ctx.Param("username")
	author, err := f.users.ByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40414, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load user")
		return
	}

	if err := op(userID, author.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update subscription")
		return
	}

	ctx.Redirect(http.StatusFound, "/profile/"+author.Username)
}
