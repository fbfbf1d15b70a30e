package model

import "time"

// TitleMaxLength bounds Post.Title, matching the column size.
const TitleMaxLength = 500

// Post is authored content owned by a single user.
type Post struct {
	PostID    uint      `json:"postId" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"size:500;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	PostedUser *User     `json:"postedUser,omitempty" gorm:"foreignKey:UserID;references:UserID;-:migration"`
	Comments   []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// OwnerID returns the id of the user who created the post.
func (p *Post) OwnerID() uint {
	return p.UserID
}
