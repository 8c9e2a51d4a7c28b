package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jotterhq/jotter/internal/validate"
	"github.com/jotterhq/jotter/pkg/types"
)

// resetTokenTTL bounds the life of a password reset token.
const resetTokenTTL = time.Hour

// UserService implements registration, authentication, preferences, and the
// password reset flow.
type UserService struct {
	store  types.Store
	logger *zap.Logger
	now    func() time.Time
}

// Register creates a new account. A username that is already taken yields
// ErrConflict whether the pre-scan finds it or the relational backend
// rejects the insert; the caller cannot tell which race resolved it.
func (s *UserService) Register(username, password, email string) (types.User, error) {
	if err := validate.Username(username); err != nil {
		return types.User{}, err
	}
	if err := validate.Password(password); err != nil {
		return types.User{}, err
	}
	if err := validate.Email(email); err != nil {
		return types.User{}, err
	}

	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return types.User{}, err
	}
	existing, err := users.Select(types.Match{"username": username})
	if err != nil {
		return types.User{}, err
	}
	if len(existing) > 0 {
		return types.User{}, fmt.Errorf("%w: username", types.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: hashing password: %v", types.ErrStorageFailure, err)
	}
	id, err := newID()
	if err != nil {
		return types.User{}, err
	}

	user := types.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Locale:       types.DefaultLocale,
		Theme:        types.DefaultTheme,
	}
	if err := users.Append(user.Record()); err != nil {
		return types.User{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", id), zap.String("username", username))
	return user, nil
}

// Login verifies the credentials and issues a fresh session token,
// replacing any previous one. Unknown usernames and wrong passwords are
// indistinguishable.
func (s *UserService) Login(username, password string) (types.User, error) {
	if err := validate.Username(username); err != nil {
		return types.User{}, types.ErrInvalidCredentials
	}

	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return types.User{}, err
	}
	recs, err := users.Select(types.Match{"username": username})
	if err != nil {
		return types.User{}, err
	}
	if len(recs) == 0 {
		return types.User{}, types.ErrInvalidCredentials
	}

	user := types.UserFromRecord(recs[0])
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return types.User{}, types.ErrInvalidCredentials
	}

	token := uuid.NewString()
	if _, err := users.Update(types.Match{"id": user.ID}, types.Record{"token": token}); err != nil {
		return types.User{}, err
	}
	user.Token = token
	s.logger.Info("login", zap.String("user_id", user.ID))
	return user, nil
}

// Logout clears the user's session token. Logging out twice succeeds.
func (s *UserService) Logout(userID string) error {
	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return err
	}
	_, err = users.Update(types.Match{"id": userID}, types.Record{"token": ""})
	return err
}

// Authenticate resolves a session token to its user.
func (s *UserService) Authenticate(token string) (types.User, error) {
	if token == "" {
		return types.User{}, types.ErrUnauthorized
	}
	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return types.User{}, err
	}
	recs, err := users.Select(types.Match{"token": token})
	if err != nil {
		return types.User{}, err
	}
	if len(recs) == 0 {
		return types.User{}, types.ErrUnauthorized
	}
	return types.UserFromRecord(recs[0]), nil
}

// GetUsername returns the username for a user ID.
func (s *UserService) GetUsername(userID string) (string, error) {
	if err := validate.ID(userID); err != nil {
		return "", err
	}
	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return "", err
	}
	recs, err := users.Select(types.Match{"id": userID})
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", fmt.Errorf("%w: user", types.ErrNotFound)
	}
	return recs[0]["username"], nil
}

// ChangePassword replaces the password hash for the user.
func (s *UserService) ChangePassword(userID, newPassword string) error {
	if err := validate.Password(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: hashing password: %v", types.ErrStorageFailure, err)
	}

	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return err
	}
	n, err := users.Update(types.Match{"id": userID}, types.Record{"password_hash": string(hash)})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user", types.ErrNotFound)
	}
	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

// UpdatePreferences sets the user's locale and theme.
func (s *UserService) UpdatePreferences(userID, locale, theme string) error {
	if err := validate.Locale(locale); err != nil {
		return err
	}
	if err := validate.Theme(theme); err != nil {
		return err
	}
	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return err
	}
	n, err := users.Update(types.Match{"id": userID}, types.Record{"locale": locale, "theme": theme})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user", types.ErrNotFound)
	}
	return nil
}

// RequestPasswordReset issues a reset token for the account with the given
// email, superseding any live token for the same user. Delivery of the
// token is the caller's concern.
func (s *UserService) RequestPasswordReset(email string) (types.ResetToken, error) {
	if err := validate.Email(email); err != nil {
		return types.ResetToken{}, err
	}

	users, err := s.store.Table(types.UsersTable)
	if err != nil {
		return types.ResetToken{}, err
	}
	recs, err := users.Select(types.Match{"email": email})
	if err != nil {
		return types.ResetToken{}, err
	}
	if len(recs) == 0 {
		return types.ResetToken{}, fmt.Errorf("%w: user", types.ErrNotFound)
	}
	userID := recs[0]["id"]

	tokens, err := s.store.Table(types.ResetTokensTable)
	if err != nil {
		return types.ResetToken{}, err
	}
	// Supersede any live token before issuing the new one.
	if _, err := tokens.Delete(types.Match{"user_id": userID}); err != nil {
		return types.ResetToken{}, err
	}

	tok := types.ResetToken{
		UserID: userID,
		Token:  uuid.NewString(),
		Expiry: s.now().Add(resetTokenTTL),
	}
	if err := tokens.Append(tok.Record()); err != nil {
		return types.ResetToken{}, err
	}
	s.logger.Info("reset token issued", zap.String("user_id", userID))
	return tok, nil
}

// ResetPassword redeems a token and sets the new password. The matched
// token is removed in the same rewrite that reads it, so redemption is
// single-use; expired, consumed, and unknown tokens all report
// ErrInvalidToken.
func (s *UserService) ResetPassword(token, newPassword string) error {
	if err := validate.Password(newPassword); err != nil {
		return err
	}

	tokens, err := s.store.Table(types.ResetTokensTable)
	if err != nil {
		return err
	}
	removed, err := tokens.Delete(types.Match{"token": token})
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		return types.ErrInvalidToken
	}
	tok := types.ResetTokenFromRecord(removed[0])
	if tok.Expired(s.now()) {
		return types.ErrInvalidToken
	}
	return s.ChangePassword(tok.UserID, newPassword)
}
