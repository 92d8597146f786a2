package models

// User is an account row in the relational store. PasswordHash is bcrypt
// and never serialized.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
}
