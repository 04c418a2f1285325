package web

import (
	"github.com/goserg/clubshub/auth/users"
	"github.com/goserg/clubshub/internal/web/webpath"
)

// data is passed to every template. The session user travels here explicitly.
type data struct {
	Title  string
	Path   map[string]string
	User   users.User
	Toast  *toast
	Errors []string
	Data   map[string]any
}

func newData(title string) data {
	return data{
		Title: title,
		Path:  webpath.Path(),
		Data:  make(map[string]any),
	}
}

func (m data) WithUser(user users.User) data {
	m.User = user
	return m
}

func (m data) WithToast(t *toast) data {
	m.Toast = t
	return m
}

func (m data) With(key string, value any) data {
	if m.Data == nil {
		m.Data = make(map[string]any)
	}
	m.Data[key] = value
	return m
}

// messages flattens joined validation errors into their texts.
func messages(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, messages(e)...)
	}
	return out
}

func (m data) WithErrors(err error) data {
	if err == nil {
		return m
	}
	m.Errors = append(m.Errors, messages(err)...)
	return m
}
