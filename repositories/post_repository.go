package repositories

import (
	"gorm.io/gorm"

	"github.com/yatube/yatube/models"
	"github.com/yatube/yatube/utils"
)

// Timeline ordering: newest first, insertion order breaking ties.
const timelineOrder = "created_at DESC, id DESC"

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *postRepository) Get(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) All(limit, offset int) ([]models.Post, int64, error) {
	return r.list(r.db.Model(&models.Post{}), limit, offset)
}

func (r *postRepository) ByGroup(groupID uint, limit, offset int) ([]models.Post, int64, error) {
	return r.list(r.db.Model(&models.Post{}).Where("group_id = ?", groupID), limit, offset)
}

func (r *postRepository) ByAuthor(authorID uint, limit, offset int) ([]models.Post, int64, error) {
	return r.list(r.db.Model(&models.Post{}).Where("author_id = ?", authorID), limit, offset)
}

func (r *postRepository) ByAuthorSet(authorIDs []uint, limit, offset int) ([]models.Post, int64, error) {
	ids := utils.UniqueUint(authorIDs)
	if len(ids) == 0 {
		return []models.Post{}, 0, nil
	}
	return r.list(r.db.Model(&models.Post{}).Where("author_id IN ?", ids), limit, offset)
}

// list counts the filtered set, then fetches one page with author and group
// resolved in the same round trip.
func (r *postRepository) list(query *gorm.DB, limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.Session(&gorm.Session{}).Preload("Author").Preload("Group").
		Order(timelineOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
