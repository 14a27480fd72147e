package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/utils"
)

// StatsController reports aggregate platform counts.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns record counts for users, posts, comments and follow edges.
func (s *StatsController) GetStats(ctx *gin.Context) {
	counts := map[string]int64{}
	for name, model := range map[string]interface{}{
		"user_count":    &models.User{},
		"post_count":    &models.Post{},
		"comment_count": &models.Comment{},
		"follow_count":  &models.Follow{},
	} {
		var n int64
		if err := s.db.Model(model).Count(&n).Error; err != nil {
			// Fallback to 0 instead of failing the whole endpoint
			n = 0
		}
		counts[name] = n
	}

	utils.Success(ctx, counts)
}
