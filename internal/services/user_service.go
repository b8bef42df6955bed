package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
	"github.com/baharkarakas/unitrack/internal/auth"
	"github.com/baharkarakas/unitrack/internal/models"
	repo "github.com/baharkarakas/unitrack/internal/repository"
)

// bcrypt ignores input past 72 bytes
const maxPasswordLen = 72

var errBadCredentials = apperr.Validation("invalid username or password")

type UserService struct {
	r      repo.Users
	tokens *auth.TokenManager
}

func NewUserService(r repo.Users, tokens *auth.TokenManager) *UserService {
	return &UserService{r: r, tokens: tokens}
}

type SignUpInput struct {
	Username     string
	Password     string
	Role         string
	UniversityID string
}

type AuthPayload struct {
	Token       string      `json:"token"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        models.User `json:"user"`
	RedirectURL string      `json:"redirectUrl"`
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (AuthPayload, error) {
	username := strings.TrimSpace(in.Username)
	universityID := strings.TrimSpace(in.UniversityID)
	role, roleOK := models.ParseRole(in.Role)

	if err := validate.Collect(
		validate.Required("username", username),
		validate.Required("password", in.Password),
		validate.When(len(in.Password) > maxPasswordLen, "password", "must be at most 72 bytes"),
		validate.When(!roleOK, "role", "must be admin or student"),
		validate.When(roleOK && role == models.RoleStudent && universityID == "", "universityId", "required for students"),
	); err != nil {
		return AuthPayload{}, err
	}
	if role == models.RoleAdmin {
		universityID = ""
	}

	if _, err := s.r.GetByUsername(ctx, username); err == nil {
		return AuthPayload{}, apperr.Validation("username already taken")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return AuthPayload{}, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return AuthPayload{}, err
	}
	u, err := s.r.Create(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		UniversityID: universityID,
	})
	if err != nil {
		// lost a race with a concurrent sign-up
		return AuthPayload{}, conflict(err, "username already taken")
	}
	slog.InfoContext(ctx, "user signed up", "user_id", u.ID, "role", u.Role)
	return s.issue(u)
}

// Login answers unknown users and wrong passwords with the same error; the
// real reason only goes to the log.
func (s *UserService) Login(ctx context.Context, username, password string) (AuthPayload, error) {
	username = strings.TrimSpace(username)
	if err := validate.Collect(
		validate.Required("username", username),
		validate.Required("password", password),
	); err != nil {
		return AuthPayload{}, err
	}

	u, err := s.r.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		slog.InfoContext(ctx, "login rejected", "reason", "unknown user")
		return AuthPayload{}, errBadCredentials
	}
	if err != nil {
		return AuthPayload{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		slog.InfoContext(ctx, "login rejected", "reason", "password mismatch", "user_id", u.ID)
		return AuthPayload{}, errBadCredentials
	}
	return s.issue(u)
}

func (s *UserService) issue(u models.User) (AuthPayload, error) {
	tok, exp, err := s.tokens.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return AuthPayload{}, err
	}
	return AuthPayload{Token: tok, ExpiresAt: exp, User: u, RedirectURL: u.RedirectURL()}, nil
}

// Me returns the caller's user, or nil when the identity no longer resolves.
func (s *UserService) Me(ctx context.Context, id auth.Identity) (*models.User, error) {
	if id.UserID == "" {
		return nil, nil
	}
	u, err := s.r.GetByID(ctx, id.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	u, err := s.r.GetByID(ctx, id)
	return u, notFound(err, "user")
}

func (s *UserService) GetMany(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.r.GetMany(ctx, ids)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) { return s.r.List(ctx) }

func (s *UserService) Students(ctx context.Context) ([]models.User, error) {
	return s.r.ListByRole(ctx, models.RoleStudent)
}
