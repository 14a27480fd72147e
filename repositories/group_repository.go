package repositories

import (
	"gorm.io/gorm"

	"github.com/yatube/yatube/models"
)

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

func (r *groupRepository) All() ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

func (r *groupRepository) BySlug(slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}
