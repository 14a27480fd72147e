package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yatube/yatube/models"
)

type socialGraph struct {
	db *gorm.DB
}

func NewSocialGraph(db *gorm.DB) SocialGraph {
	return &socialGraph{db: db}
}

// Follow inserts the edge with ON CONFLICT DO NOTHING on the (user, author)
// pair, so two concurrent calls cannot produce a duplicate and a repeated
// call is absorbed without error. Self-follows never reach the database.
func (g *socialGraph) Follow(userID, authorID uint) error {
	if userID == authorID {
		return nil
	}
	return g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error
}

func (g *socialGraph) Unfollow(userID, authorID uint) error {
	return g.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{}).Error
}

func (g *socialGraph) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := g.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (g *socialGraph) FollowedAuthorIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := g.db.Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error
	return ids, err
}
