package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/yoojob/internal/models"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
	"github.com/yoockh/yoojob/internal/validation"
)

type SignupInput struct {
	Name     string `json:"name" validate:"personname"`
	Email    string `json:"email" validate:"emailshape"`
	Password string `json:"password" validate:"strongpassword"`
	Role     string `json:"role" validate:"userrole"`
}

type UserView struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID   string          `json:"id"`
		Role models.UserRole `json:"role"`
	} `json:"user"`
}

type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*UserView, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	users    pgrepo.UserRepository
	tokens   TokenIssuer
	validate *validation.Validator
}

func NewAuthService(users pgrepo.UserRepository, tokens TokenIssuer, validate *validation.Validator) AuthService {
	return &authService{users: users, tokens: tokens, validate: validate}
}

func (s *authService) Signup(ctx context.Context, in SignupInput) (*UserView, error) {
	const op = "AuthService.Signup"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if msgs := s.validate.Struct(in); len(msgs) > 0 {
		return nil, utils.Invalid(op, msgs...)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		Role:      models.UserRole(in.Role),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "Email already exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "AuthService.Login"

	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "User not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	if err := utils.CheckPassword(u.Password, password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return nil, utils.E(utils.CodeUnauthorized, op, "Incorrect password", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to verify password", err)
	}

	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}

	out := &LoginResult{Token: token}
	out.User.ID = u.ID
	out.User.Role = u.Role
	return out, nil
}
