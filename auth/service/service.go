package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/goserg/clubshub/auth/storage"
	"github.com/goserg/clubshub/auth/users"
	"github.com/sirupsen/logrus"
)

const CookieName = "token"

var (
	ErrForbidden     = errors.New("access denied")
	ErrNotAuthorized = errors.New("unauthorized")
	ErrEmptyFields   = errors.New("Please fill in all fields")
	ErrBadToken      = errors.New("bad token")
)

type Service struct {
	storage    storage.SessionStorage
	cfg        Config
	expiration time.Duration
	rules      []rule
	log        *logrus.Entry
}

type rule struct {
	Rule
	path *regexp.Regexp
}

func New(cfg Config, storage storage.SessionStorage, log *logrus.Logger) (*Service, error) {
	if cfg.Token == "" {
		return nil, errors.New("auth token must not be empty")
	}
	expiration, err := time.ParseDuration(cfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("auth expiration: %w", err)
	}
	rules := make([]rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		re, err := regexp.Compile(r.Path)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		rules = append(rules, rule{Rule: r, path: re})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Order < rules[j].Order
	})
	return &Service{
		storage:    storage,
		cfg:        cfg,
		expiration: expiration,
		rules:      rules,
		log:        log.WithField("name", "auth"),
	}, nil
}

type Credentials struct {
	RollNumber string
	Password   string
	UserType   string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.RollNumber) == "" ||
		strings.TrimSpace(c.Password) == "" ||
		strings.TrimSpace(c.UserType) == "" {
		return ErrEmptyFields
	}
	_, err := users.ParseUserType(c.UserType)
	return err
}

// Login signs the user into the session sessionID, creating a new session when
// sessionID is unknown. Any previous user of the session is replaced.
// The password is not checked.
func (s *Service) Login(ctx context.Context, sessionID uuid.UUID, creds Credentials) (uuid.UUID, users.User, error) {
	if err := creds.Validate(); err != nil {
		return uuid.Nil, users.User{}, err
	}
	userType, _ := users.ParseUserType(creds.UserType)
	user := users.New(creds.RollNumber, userType)

	holder, err := s.storage.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSession) {
			return uuid.Nil, users.User{}, err
		}
		sessionID, holder, err = s.storage.Create(ctx)
		if err != nil {
			return uuid.Nil, users.User{}, err
		}
	}
	holder.Login(user)
	s.log.WithFields(logrus.Fields{
		"roll_number": user.RollNumber,
		"user_type":   user.Type,
	}).Info("login")
	return sessionID, user, nil
}

// Logout clears the session. It never fails for unknown sessions.
func (s *Service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	holder, err := s.storage.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNoSession) {
			return nil
		}
		return err
	}
	holder.Logout()
	return s.storage.Delete(ctx, sessionID)
}

func (s *Service) GenerateJWTCookie(sessionID uuid.UUID, host string) (*fiber.Cookie, error) {
	expirationTime := time.Now().Add(s.expiration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: expirationTime.Unix(),
		IssuedAt:  time.Now().Unix(),
		Subject:   sessionID.String(),
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:        CookieName,
		Value:       tokenString,
		Path:        "/",
		Domain:      host,
		Secure:      false,
		HTTPOnly:    true,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: true,
	}, nil
}

// Session resolves the session cookie. An empty cookie is a guest without error.
func (s *Service) Session(ctx context.Context, cookie string) (uuid.UUID, users.User, error) {
	if cookie == "" {
		return uuid.Nil, users.User{}, nil
	}
	id, err := s.parseToken(cookie)
	if err != nil {
		return uuid.Nil, users.User{}, err
	}
	holder, err := s.storage.Get(ctx, id)
	if err != nil {
		return uuid.Nil, users.User{}, err
	}
	user, _ := holder.User()
	return id, user, nil
}

func (s *Service) parseToken(cookie string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(cookie, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(s.cfg.Token), nil
	})
	if err != nil {
		ve := &jwt.ValidationError{}
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return uuid.Nil, fmt.Errorf("token expired: %w", ErrBadToken)
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrBadToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	return id, nil
}

// Authorize checks the access rules in order. The first rule matching path and
// method decides. No matching rule denies access.
func (s *Service) Authorize(user users.User, method string, path string) error {
	role := user.Role()
	path = normalizePath(path)
	for _, r := range s.rules {
		if !r.path.MatchString(path) || !matchMethod(r.Method, method) {
			continue
		}
		for _, allowed := range r.Allow {
			if allowed == "*" || allowed == role {
				return nil
			}
		}
		break
	}
	if role == users.RoleGuest {
		return ErrNotAuthorized
	}
	return ErrForbidden
}

// normalizePath folds the spellings a lenient router would treat as one route.
func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

func matchMethod(methods []string, method string) bool {
	for _, m := range methods {
		if m == "*" || strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// RunJanitor prunes sessions idle for longer than the token expiration until ctx is done.
func (s *Service) RunJanitor(ctx context.Context) error {
	interval, err := time.ParseDuration(s.cfg.JanitorInterval)
	if err != nil {
		return fmt.Errorf("janitor interval: %w", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := s.storage.Prune(ctx, now.Add(-s.expiration))
			if err != nil {
				s.log.WithError(err).Error("prune sessions")
				continue
			}
			if n > 0 {
				s.log.WithField("count", n).Debug("pruned idle sessions")
			}
		}
	}
}
