package model

import "time"

// User is a registered author. Password holds the digest, never the plaintext.
type User struct {
	UserID       uint      `json:"userId" gorm:"primaryKey"`
	FirstName    string    `json:"firstName" gorm:"size:255;not null"`
	LastName     string    `json:"lastName" gorm:"size:255;not null;default:''"`
	EmailAddress string    `json:"emailAddress" gorm:"uniqueIndex;size:255;not null"`
	Password     string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations. The foreign keys live on the child tables.
	Posts    []Post    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
