package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voxchat/voxchat/sources/psql/models"
	"voxchat/voxchat/types"
	"voxchat/voxchat/utils/errs"
	"voxchat/voxchat/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, email, passwordHash string, name *string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

type AuthController struct {
	users    UserStore
	tokens   TokenIssuer
	hashCost int
	// compared against when the email is unknown so both paths cost one bcrypt
	dummyHash []byte
}

func NewAuthController(users UserStore, tokens TokenIssuer) *AuthController {
	return newAuthController(users, tokens, bcrypt.DefaultCost)
}

func newAuthController(users UserStore, tokens TokenIssuer, cost int) *AuthController {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("voxchat-dummy-password"), cost)
	return &AuthController{users: users, tokens: tokens, hashCost: cost, dummyHash: dummy}
}

// Register creates the account and returns a token for it.
func (c *AuthController) Register(ctx context.Context, req types.RegisterRequest) (string, error) {
	userID, err := c.RegisterUser(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return "", err
	}
	return c.issue(userID)
}

// Login checks the credentials and returns a fresh token.
func (c *AuthController) Login(ctx context.Context, req types.LoginRequest) (string, error) {
	userID, err := c.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return "", err
	}
	return c.issue(userID)
}

func (c *AuthController) RegisterUser(ctx context.Context, email, password string, name *string) (uuid.UUID, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return uuid.Nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	existing, err := c.users.GetUserByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, fmt.Errorf("%w: email %s is already registered", errs.ErrConflict, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return uuid.Nil, fmt.Errorf("%w: password is too long", errs.ErrValidation)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := c.users.CreateUser(ctx, email, string(hash), name)
	if err != nil {
		return uuid.Nil, err
	}
	logging.AppLogger.Info("User registered", zap.String("user_id", user.ID.String()))
	return user.ID, nil
}

func (c *AuthController) VerifyCredentials(ctx context.Context, email, password string) (uuid.UUID, error) {
	user, err := c.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return uuid.Nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(c.dummyHash, []byte(password))
		return uuid.Nil, errs.ErrAuth
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return uuid.Nil, errs.ErrAuth
	}
	return user.ID, nil
}

func (c *AuthController) issue(userID uuid.UUID) (string, error) {
	token, err := c.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
