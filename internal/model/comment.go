package model

import "time"

// Comment is a reply to a post. It is removed together with its post.
type Comment struct {
	CommentID uint      `json:"commentId" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;index"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Text      string    `json:"comment" gorm:"column:comment;type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Commentor *User `json:"commentor,omitempty" gorm:"foreignKey:UserID;references:UserID;-:migration"`
}

// OwnerID returns the id of the user who wrote the comment.
func (c *Comment) OwnerID() uint {
	return c.UserID
}
