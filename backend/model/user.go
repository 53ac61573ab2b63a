package model

import "time"

// User is owned by the registration flow; this service only reads it to
// confirm a session still points at a live account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:24"`
	Email     string    `json:"email" gorm:"index;size:255"`
	CreatedAt time.Time `json:"-"`
}

func (u *User) TableName() string {
	return "users"
}
