package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 24 * time.Hour

// AccountStore is implemented by repositories.UserRepository and
// repositories.MemoryUserRepository.
type AccountStore interface {
	UserLookup
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpdateUserType(ctx context.Context, id int64, userType string) error
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=6"`
	UserType string `json:"userType" validate:"omitempty,oneof=passenger driver"`
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

var inputValidator = validator.New()

type AuthService struct {
	Users     AccountStore
	Secret    []byte
	TokenTTL  time.Duration
	RequestID string
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := inputValidator.Struct(in); err != nil {
		return models.User{}, "", inputError(err)
	}
	if in.UserType == "" {
		in.UserType = domain.UserTypePassenger
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", domain.InternalError{Msg: "gagal meng-hash password", Err: err}
	}
	u := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		UserType:     in.UserType,
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		if domain.IsConflict(err) {
			return models.User{}, "", err
		}
		return models.User{}, "", domain.InternalError{Msg: "gagal menyimpan user", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "register", fmt.Sprintf("user_id=%d type=%s", u.ID, u.UserType))

	token, err := s.IssueToken(u)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

func (s AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	invalid := domain.UnauthorizedError{Msg: "email atau password salah"}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", invalid
		}
		return models.User{}, "", domain.InternalError{Msg: "gagal query user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", invalid
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return models.User{}, "", err
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", u.ID))
	return u, token, nil
}

// SwitchUserType changes the account between passenger and driver and
// returns a token carrying the new type.
func (s AuthService) SwitchUserType(ctx context.Context, userID int64, userType string) (models.User, string, error) {
	if userType != domain.UserTypePassenger && userType != domain.UserTypeDriver {
		return models.User{}, "", domain.ValidationError{Field: "userType", Msg: "must be passenger or driver"}
	}
	if err := s.Users.UpdateUserType(ctx, userID, userType); err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, "", err
		}
		return models.User{}, "", domain.InternalError{Msg: "gagal mengubah tipe user", Err: err}
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, "", err
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return models.User{}, "", err
	}
	utils.LogEvent(s.RequestID, "auth", "switch_user_type", fmt.Sprintf("user_id=%d type=%s", userID, userType))
	return u, token, nil
}

func (s AuthService) IssueToken(u models.User) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		UserType: u.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "gagal membuat token", Err: err}
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns the caller it names.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "token tidak valid", Err: err}
	}
	if claims.UserID <= 0 {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	return domain.RequestContext{UserID: claims.UserID, UserType: claims.UserType}, nil
}

func inputError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationError{Msg: err.Error(), Err: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()[:1])+fe.Field()[1:])
	}
	return domain.ValidationError{Fields: fields, Msg: "invalid input", Err: err}
}
