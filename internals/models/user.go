package models

type User struct {
	Id       int64  `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"` // stored as plain text, compared by equality
}
