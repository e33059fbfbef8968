package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"userType"`
	CreatedAt    time.Time `json:"createdAt"`
}
