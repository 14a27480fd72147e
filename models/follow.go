package models

import "time"

// Follow is a directed edge meaning "user receives author's posts in their
// feed". The composite unique index makes duplicate edges impossible at the
// database level, so concurrent follow calls cannot race into two rows.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_follows_pair;not null" json:"user_id"`
	AuthorID  uint      `gorm:"uniqueIndex:idx_follows_pair;not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
