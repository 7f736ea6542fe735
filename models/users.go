package models

import "time"

type User struct {
	ID           string    `firestore:"id" json:"id"`
	Name         string    `firestore:"name" json:"name"`
	Email        string    `firestore:"email" json:"email"`
	PasswordHash string    `firestore:"password_hash" json:"-"`
	CreatedAt    time.Time `firestore:"created_at" json:"created_at"`
}
