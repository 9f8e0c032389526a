package model

import "time"

// Admin is the identity carried by an admin JWT. There are no user accounts;
// the subject names who logged in.
type Admin struct {
	Subject   string
	ExpiresAt time.Time
}
