package service

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"reviewhub/internal/httpapi/apperrors"
	"reviewhub/internal/httpapi/auth"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/logger"
	"reviewhub/internal/mailer"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// "me" is routed to the profile endpoint and can never be an account name
const reservedUsername = "me"

// ValidateUsername enforces the account-name rules shared by sign-up, token
// exchange and admin user creation.
func ValidateUsername(username string) error {
	if username == reservedUsername {
		return apperrors.Validation("me is not an allowed username")
	}
	if len(username) > 150 || !usernamePattern.MatchString(username) {
		return apperrors.Validation("username may only contain letters, digits and .@+-")
	}
	return nil
}

type AuthService interface {
	RequestSignUp(username, email string) error
	ExchangeToken(username, confirmationCode string) (string, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   auth.TokenManager
	mail     mailer.Mailer
}

func NewAuthService(userRepo repository.UserRepository, tokens auth.TokenManager, mail mailer.Mailer) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
	}
}

// RequestSignUp creates-or-fetches the account for the exact
// (username, email) pair, rotates its confirmation code and mails the new
// code. A partial match against an existing account is a conflict. Mail
// failures propagate: the caller must know the code never went out.
func (s *authService) RequestSignUp(username, email string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if user != nil {
		if user.Email != email {
			return apperrors.Conflict("this username is already taken")
		}
	} else {
		if _, err := s.userRepo.FindByEmail(email); err == nil {
			return apperrors.Conflict("this email is already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			// two concurrent sign-ups for the same identity: the unique
			// index decides, we report the loser as a conflict
			if repository.IsDuplicateKey(err) {
				return apperrors.Conflict("username or email already taken")
			}
			return err
		}
	}

	// every sign-up call rotates the code, even for an existing account
	code, err := auth.NewConfirmationCode()
	if err != nil {
		return err
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return err
	}
	user.ConfirmationCode = &hash
	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	body := fmt.Sprintf("Confirmation Code: %s", code)
	if err := s.mail.Send(user.Email, "ReviewHub Confirmation Code", body); err != nil {
		logger.Get().WithError(err).WithField("username", username).Error("failed to send confirmation code")
		return fmt.Errorf("dispatch confirmation code: %w", err)
	}

	return nil
}

// ExchangeToken trades a valid (username, confirmation code) pair for a
// signed access token.
func (s *authService) ExchangeToken(username, confirmationCode string) (string, error) {
	if err := ValidateUsername(username); err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("user not found")
		}
		return "", err
	}

	if user.ConfirmationCode == nil {
		return "", apperrors.Validation("wrong code")
	}
	if err := auth.VerifyCode(*user.ConfirmationCode, confirmationCode); err != nil {
		return "", apperrors.Validation("wrong code")
	}

	return s.tokens.IssueToken(user)
}
