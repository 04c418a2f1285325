package users

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type UserType string

const (
	Student UserType = "student"
	Faculty UserType = "faculty"
	Admin   UserType = "admin"
)

// RoleGuest is the role of a request without a session user.
const RoleGuest = "guest"

const emailDomain = "kmit.edu.in"

var ErrUnknownUserType = errors.New("unknown user type")

func Types() []UserType {
	return []UserType{Student, Faculty, Admin}
}

func ParseUserType(s string) (UserType, error) {
	switch t := UserType(strings.ToLower(strings.TrimSpace(s))); t {
	case Student, Faculty, Admin:
		return t, nil
	}
	return "", ErrUnknownUserType
}

func (t UserType) String() string {
	return string(t)
}

// Label is the human readable user type, e.g. "Faculty".
func (t UserType) Label() string {
	return cases.Title(language.English).String(string(t))
}

// IDLabel names the login identifier: students use roll numbers, staff use employee ids.
func (t UserType) IDLabel() string {
	if t == Student {
		return "Roll Number"
	}
	return "Employee ID"
}

type User struct {
	Name       string
	RollNumber string
	Email      string
	Type       UserType
}

// New derives the session user from a login identifier.
// The same roll number and type always produce the same user.
func New(rollNumber string, t UserType) User {
	rollNumber = NormalizeRollNumber(rollNumber)
	return User{
		Name:       t.Label() + " " + rollNumber,
		RollNumber: rollNumber,
		Email:      strings.ToLower(rollNumber) + "@" + emailDomain,
		Type:       t,
	}
}

func NormalizeRollNumber(rollNumber string) string {
	return strings.ToUpper(strings.TrimSpace(rollNumber))
}

func (u User) IsZero() bool {
	return u.RollNumber == ""
}

// Role is the access role used by the authorization rules.
func (u User) Role() string {
	if u.IsZero() {
		return RoleGuest
	}
	return u.Type.String()
}
