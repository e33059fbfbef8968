package models

import "time"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Driver is a roster entry.
type Driver struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsOnline  bool      `json:"isOnline"`
	Location  *Location `json:"location,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
