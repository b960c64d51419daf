package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourorg/chatapp/internal/apperr"
	"github.com/yourorg/chatapp/internal/models"
	"github.com/yourorg/chatapp/internal/repository"
)

// OTPStore is the expiring keyed cache the OTP flow runs on. The Redis
// client satisfies it; tests use an in-memory fake.
type OTPStore interface {
	SetOTP(ctx context.Context, phone, code string, ttl time.Duration) error
	GetOTP(ctx context.Context, phone string) (string, error)
	DeleteOTP(ctx context.Context, phone string) error
	CountOTPRequest(ctx context.Context, phone string, window time.Duration) (int64, error)
}

type Config struct {
	OTPTTL          time.Duration
	OTPDigits       int
	PerPhonePerHour int64
}

type Service struct {
	users  repository.UserRepository
	store  OTPStore
	sms    SMSSender
	tokens *TokenIssuer
	cfg    Config
	log    *zap.SugaredLogger
}

func NewService(users repository.UserRepository, store OTPStore, sms SMSSender, tokens *TokenIssuer, cfg Config, log *zap.SugaredLogger) *Service {
	return &Service{users: users, store: store, sms: sms, tokens: tokens, cfg: cfg, log: log}
}

// RequestOTP generates a code, stores it with TTL and hands it to the SMS
// boundary. Per-phone requests are rate limited over a one-hour window.
func (s *Service) RequestOTP(ctx context.Context, phone string) error {
	if phone == "" {
		return fmt.Errorf("phone number required: %w", apperr.ErrValidation)
	}
	count, err := s.store.CountOTPRequest(ctx, phone, time.Hour)
	if err != nil {
		return fmt.Errorf("otp rate counter: %w", err)
	}
	if count > s.cfg.PerPhonePerHour {
		return apperr.ErrRateLimited
	}

	code := GenerateOTP(s.cfg.OTPDigits)
	if err := s.store.SetOTP(ctx, phone, code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	msg := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(s.cfg.OTPTTL.Minutes()))
	if err := s.sms.SendSMS(ctx, phone, msg); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// VerifyOTP checks the code and returns a signed token for the matching
// user, creating the user on first successful verification.
func (s *Service) VerifyOTP(ctx context.Context, phone, code string) (string, *models.User, error) {
	if phone == "" || code == "" {
		return "", nil, fmt.Errorf("phone and code required: %w", apperr.ErrValidation)
	}
	stored, err := s.store.GetOTP(ctx, phone)
	if err != nil {
		return "", nil, err
	}
	if stored != code {
		return "", nil, apperr.ErrInvalidOTP
	}
	_ = s.store.DeleteOTP(ctx, phone)

	user, err := s.users.FindByPhone(ctx, phone)
	if errors.Is(err, apperr.ErrNotFound) {
		user = &models.User{
			PhoneNumber: phone,
			Name:        "User " + phone,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.log.Warnw("last login update failed", "user_id", user.ID, "error", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
