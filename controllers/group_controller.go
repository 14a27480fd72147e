package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/repositories"
	"github.com/yatube/yatube/utils"
)

// GroupController handles the administrative side of groups. Groups are
// immutable once created; only listed admins may create them.
type GroupController struct {
	groups repositories.GroupRepository
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(groups repositories.GroupRepository) *GroupController {
	return &GroupController{groups: groups}
}

// CreateGroup creates a group from title, slug and description.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40330, "admin access required")
		return
	}

	var req struct {
		Title       string `form:"title" json:"title" binding:"required"`
		Slug        string `form:"slug" json:"slug" binding:"required"`
		Description string `form:"description" json:"description"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	group := models.Group{
		Title:       utils.Sanitize(strings.TrimSpace(req.Title)),
		Slug:        strings.TrimSpace(req.Slug),
		Description: utils.Sanitize(req.Description),
	}
	if group.Title == "" || group.Slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title and slug cannot be empty")
		return
	}

	if err := g.groups.Create(&group); err != nil {
		utils.Error(ctx, http.StatusConflict, 40910, "group slug already exists")
		return
	}

	utils.Success(ctx, gin.H{"group": group})
}

// ListGroups returns all groups for navigation.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.groups.All()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}
