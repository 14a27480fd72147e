package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/repositories"
	"github.com/yatube/yatube/utils"
)

const tokenLifetime = 7 * 24 * time.Hour

// AuthController issues the identities the feed consumes. It deliberately
// stays small: register, login, whoami.
type AuthController struct {
	users repositories.UserRepository
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users repositories.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Register creates a user account with a bcrypt-hashed password.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required,min=3,max=64"`
		Email    string `form:"email" json:"email"`
		Password string `form:"password" json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if _, err := a.users.ByUsername(username); err == nil {
		utils.Error(ctx, http.StatusConflict, 40911, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to check username")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to hash password")
		return
	}

	user := models.User{Username: username, Email: strings.TrimSpace(req.Email), PasswordHash: hash}
	if err := a.users.Create(&user); err != nil {
		utils.Error(ctx, http.StatusConflict, 40911, "username already taken")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

// LoginForm is the anonymous landing for protected routes; it echoes the
// return path so a client can come back after logging in.
func (a *AuthController) LoginForm(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"next": ctx.Query("next")})
}

// Login verifies credentials and issues a JWT, also set as a cookie so
// browser-style clients carry it implicitly.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid request payload")
		return
	}

	user, err := a.users.ByUsername(strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to issue token")
		return
	}

	ctx.SetCookie("auth_token", token, int(tokenLifetime.Seconds()), "/", "", false, true)

	next := ctx.Query("next")
	if next != "" {
		ctx.Redirect(http.StatusFound, next)
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "unauthorized")
		return
	}
	user, err := a.users.ByID(userID)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40415, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}
