package repositories

import "github.com/yatube/yatube/models"

// PostRepository is the entity store for posts. Every listing query resolves
// the author and group in the same call and pushes limit/offset down to the
// database.
type PostRepository interface {
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uint) error
	Get(id uint) (*models.Post, error)
	// All returns the global timeline slice, newest first.
	All(limit, offset int) ([]models.Post, int64, error)
	ByGroup(groupID uint, limit, offset int) ([]models.Post, int64, error)
	ByAuthor(authorID uint, limit, offset int) ([]models.Post, int64, error)
	ByAuthorSet(authorIDs []uint, limit, offset int) ([]models.Post, int64, error)
}

type GroupRepository interface {
	Create(group *models.Group) error
	BySlug(slug string) (*models.Group, error)
	All() ([]models.Group, error)
}

type UserRepository interface {
	Create(user *models.User) error
	ByUsername(username string) (*models.User, error)
	ByID(id uint) (*models.User, error)
}

type CommentRepository interface {
	Create(comment *models.Comment) error
	ByPost(postID uint) ([]models.Comment, error)
}

// SocialGraph manages follow edges between users.
type SocialGraph interface {
	// Follow creates the edge. Self-follows and duplicate edges are absorbed
	// silently; the unique pair constraint is the source of truth.
	Follow(userID, authorID uint) error
	// Unfollow removes the edge; removing a missing edge is a no-op.
	Unfollow(userID, authorID uint) error
	IsFollowing(userID, authorID uint) (bool, error)
	FollowedAuthorIDs(userID uint) ([]uint, error)
}
