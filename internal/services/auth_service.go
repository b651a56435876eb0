package services

import (
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"petstore/internal/domain"
	"petstore/internal/repos"
)

var (
	ErrBadCode     = errors.New("invalid phone or code")
	ErrCodeExpired = errors.New("sms code expired")
)

// AuthService owns the SMS-code login flow. The schema only stores the last
// code and its timestamp; the expiry window is enforced here.
type AuthService struct {
	Users   *repos.UserRepo
	SMS     SMSSender
	CodeTTL time.Duration
}

func NewAuthService(users *repos.UserRepo, sms SMSSender, codeTTL time.Duration) *AuthService {
	return &AuthService{Users: users, SMS: sms, CodeTTL: codeTTL}
}

// SendCode issues a fresh 6-digit code for the phone, creating the user on
// first contact, and hands it to the SMS collaborator.
func (s *AuthService) SendCode(phone string) error {
	code := int64(100000 + rand.Intn(900000))
	codeAt := time.Now().UTC().Format(domain.TimeFormat)

	if err := s.Users.SetSmsCode(phone, code, codeAt); err != nil {
		return err
	}
	return s.SMS.Send(phone, "Your pet store verification code: "+strconv.FormatInt(code, 10))
}

// VerifyCode checks the submitted code against the stored one inside the
// expiry window and mints a CSRF token for the session cookie.
func (s *AuthService) VerifyCode(phone string, code int64) (string, error) {
	u, err := s.Users.ByPhone(phone)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return "", ErrBadCode
		}
		return "", err
	}
	if u.LastSmsCode == 0 || u.LastSmsCode != code || u.LastSmsCodeAt == "" {
		return "", ErrBadCode
	}

	issuedAt, err := time.Parse(domain.TimeFormat, u.LastSmsCodeAt)
	if err != nil {
		return "", ErrBadCode
	}
	if time.Now().UTC().Sub(issuedAt) > s.CodeTTL {
		return "", ErrCodeExpired
	}

	return uuid.NewString(), nil
}
