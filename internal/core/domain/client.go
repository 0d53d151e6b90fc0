package domain

import "time"

// ClientStatusNew is the default pipeline status for a freshly created client.
const ClientStatusNew = "new"

// Client is a customer record owned by exactly one identity at a time.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Note      string
	Status    string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
