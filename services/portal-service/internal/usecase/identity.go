package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/model"
	"github.com/vasapolrittideah/appointment-portal/services/portal-service/internal/repository"
	"github.com/vasapolrittideah/appointment-portal/shared/security"
)

// IdentityUsecase drives a connection through
// anonymous -> pending verification -> authenticated.
// Every method mutates the session it is given; the caller persists it.
type IdentityUsecase interface {
	// Register creates an unverified account and sends it a verification
	// code. If only the send fails, the account exists, the session is
	// pending and ErrNotificationFailed is returned.
	Register(ctx context.Context, sess *model.Session, params RegisterParams) error

	// ConfirmVerification verifies the pending account when code matches
	// the issued code exactly. A mismatch keeps the session pending.
	ConfirmVerification(ctx context.Context, sess *model.Session, code string) error

	// ResendVerification issues and sends a fresh code to the pending account.
	ResendVerification(ctx context.Context, sess *model.Session) error

	Login(ctx context.Context, sess *model.Session, params LoginParams) error

	// Logout returns the session to anonymous whatever its state.
	Logout(sess *model.Session)
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Email    string
	Password string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// CodeGenerator produces verification codes.
type CodeGenerator func() (string, error)

type identityUsecase struct {
	userRepo     repository.UserRepository
	hasher       security.PasswordHasher
	notifier     Notifier
	generateCode CodeGenerator
}

func NewIdentityUsecase(
	userRepo repository.UserRepository,
	hasher security.PasswordHasher,
	notifier Notifier,
	generateCode CodeGenerator,
) IdentityUsecase {
	if generateCode == nil {
		generateCode = GenerateVerificationCode
	}

	return &identityUsecase{
		userRepo:     userRepo,
		hasher:       hasher,
		notifier:     notifier,
		generateCode: generateCode,
	}
}

func (u *identityUsecase) Register(ctx context.Context, sess *model.Session, params RegisterParams) error {
	if _, err := u.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("look up user: %w", err)
	}

	passwordHash, err := u.hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code, err := u.generateCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	if _, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:            params.Email,
		PasswordHash:     passwordHash,
		VerificationCode: code,
	}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUserAlreadyExists
		}
		return err
	}

	sess.BeginVerification(params.Email)

	return u.sendCode(ctx, params.Email, code)
}

func (u *identityUsecase) ConfirmVerification(ctx context.Context, sess *model.Session, code string) error {
	email, ok := sess.PendingEmail()
	if !ok {
		return ErrNoPendingVerification
	}

	if _, err := u.userRepo.VerifyUser(ctx, email, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCode
		}
		return fmt.Errorf("verify user: %w", err)
	}

	sess.Authenticate(email)

	return nil
}

func (u *identityUsecase) ResendVerification(ctx context.Context, sess *model.Session) error {
	email, ok := sess.PendingEmail()
	if !ok {
		return ErrNoPendingVerification
	}

	code, err := u.generateCode()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	if _, err := u.userRepo.SetVerificationCode(ctx, email, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoPendingVerification
		}
		return fmt.Errorf("store verification code: %w", err)
	}

	return u.sendCode(ctx, email, code)
}

func (u *identityUsecase) Login(ctx context.Context, sess *model.Session, params LoginParams) error {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("look up user: %w", err)
	}

	if !user.Verified {
		return ErrUserNotVerified
	}

	if ok, err := u.hasher.Verify(params.Password, user.PasswordHash); err != nil {
		return fmt.Errorf("verify password: %w", err)
	} else if !ok {
		return ErrInvalidCredentials
	}

	sess.Authenticate(user.Email)

	return nil
}

func (u *identityUsecase) Logout(sess *model.Session) {
	sess.Reset()
}

func (u *identityUsecase) sendCode(ctx context.Context, email, code string) error {
	subject, body := verificationEmail(code)
	if err := u.notifier.SendHTML(ctx, email, subject, body); err != nil {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	return nil
}

var codeRange = big.NewInt(900000)

// GenerateVerificationCode returns a six digit code in [100000, 999999].
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
