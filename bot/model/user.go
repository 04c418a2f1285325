package model

type UserRole int

const (
	RoleAdmin UserRole = 1
	RoleUser  UserRole = 2
)

// User is a telegram chat talking to the bot.
type User struct {
	ID        int64
	FirstName string
	Username  string
	Role      UserRole
}
