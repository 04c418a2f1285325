package domain

import "time"

type Branch struct {
	Code  string
	Title string
}

var Branches = []Branch{
	{Code: "cse", Title: "Computer Science Engineering"},
	{Code: "ece", Title: "Electronics & Communication"},
	{Code: "eee", Title: "Electrical & Electronics"},
	{Code: "mech", Title: "Mechanical Engineering"},
	{Code: "civil", Title: "Civil Engineering"},
	{Code: "it", Title: "Information Technology"},
}

type Year struct {
	Value string
	Title string
}

var Years = []Year{
	{Value: "1", Title: "1st Year"},
	{Value: "2", Title: "2nd Year"},
	{Value: "3", Title: "3rd Year"},
	{Value: "4", Title: "4th Year"},
}

// Registration is a submission of the general membership form.
type Registration struct {
	Name        string
	RollNumber  string
	Email       string
	Phone       string
	Branch      string
	Year        string
	Interests   string
	SubmittedAt time.Time
}

// Application is a request of a logged in user to join one club.
type Application struct {
	Club        Club
	Name        string
	RollNumber  string
	Email       string
	Phone       string
	Experience  string
	Motivation  string
	SubmittedAt time.Time
}
