package web

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	authservice "github.com/goserg/clubshub/auth/service"
	"github.com/goserg/clubshub/internal/domain"
)

func parseSignInRequest(ctx *fiber.Ctx) authservice.Credentials {
	return authservice.Credentials{
		RollNumber: ctx.FormValue("rollNo", ""),
		Password:   ctx.FormValue("password", ""),
		UserType:   ctx.FormValue("userType", ""),
	}
}

type registrationForm struct {
	Name       string
	RollNumber string
	Email      string
	Phone      string
	Branch     string
	Year       string
	Interests  string
}

func parseRegistrationForm(ctx *fiber.Ctx) registrationForm {
	return registrationForm{
		Name:       strings.TrimSpace(ctx.FormValue("name")),
		RollNumber: strings.TrimSpace(ctx.FormValue("rollNumber")),
		Email:      strings.TrimSpace(ctx.FormValue("email")),
		Phone:      strings.TrimSpace(ctx.FormValue("phone")),
		Branch:     ctx.FormValue("branch"),
		Year:       ctx.FormValue("year"),
		Interests:  strings.TrimSpace(ctx.FormValue("interests")),
	}
}

func (f registrationForm) Validate() error {
	var err error
	if f.Name == "" {
		err = errors.Join(err, errors.New("full name is required"))
	}
	if f.RollNumber == "" {
		err = errors.Join(err, errors.New("roll number is required"))
	}
	err = errors.Join(err, validateEmail(f.Email))
	err = errors.Join(err, validatePhone(f.Phone))
	if !validBranch(f.Branch) {
		err = errors.Join(err, errors.New("select your branch"))
	}
	if !validYear(f.Year) {
		err = errors.Join(err, errors.New("select your year of study"))
	}
	return err
}

func (f registrationForm) convertToDomain() domain.Registration {
	return domain.Registration{
		Name:       f.Name,
		RollNumber: f.RollNumber,
		Email:      f.Email,
		Phone:      f.Phone,
		Branch:     f.Branch,
		Year:       f.Year,
		Interests:  f.Interests,
	}
}

// applicationForm holds the editable fields of the join club form.
// Name and roll number are taken from the session.
type applicationForm struct {
	Email      string
	Phone      string
	Experience string
	Motivation string
}

func parseApplicationForm(ctx *fiber.Ctx) applicationForm {
	return applicationForm{
		Email:      strings.TrimSpace(ctx.FormValue("email")),
		Phone:      strings.TrimSpace(ctx.FormValue("phone")),
		Experience: strings.TrimSpace(ctx.FormValue("experience")),
		Motivation: strings.TrimSpace(ctx.FormValue("motivation")),
	}
}

func (f applicationForm) Validate() error {
	var err error
	err = errors.Join(err, validateEmail(f.Email))
	err = errors.Join(err, validatePhone(f.Phone))
	if f.Motivation == "" {
		err = errors.Join(err, errors.New("tell us why you want to join"))
	}
	return err
}

func (f applicationForm) convertToDomain(club domain.Club) domain.Application {
	return domain.Application{
		Club:       club,
		Email:      f.Email,
		Phone:      f.Phone,
		Experience: f.Experience,
		Motivation: f.Motivation,
	}
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email address is not valid")
	}
	return nil
}

var phoneRegexp = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}[0-9]$`)

func validatePhone(phone string) error {
	if phone == "" {
		return errors.New("phone number is required")
	}
	if !phoneRegexp.MatchString(phone) {
		return errors.New("phone number may contain only digits, spaces, dashes and a leading +")
	}
	return nil
}

func validBranch(code string) bool {
	for _, b := range domain.Branches {
		if b.Code == code {
			return true
		}
	}
	return false
}

func validYear(year string) bool {
	for _, y := range domain.Years {
		if y.Value == year {
			return true
		}
	}
	return false
}
