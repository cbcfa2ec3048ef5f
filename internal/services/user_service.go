package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/askelund/routine-manager/internal/models"
	"github.com/askelund/routine-manager/internal/repository"
	"github.com/askelund/routine-manager/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Word lists for generated invite passwords. Two memorable words beat a
// random string for credentials read aloud over the counter; invited users
// change the password on first login anyway.
var (
	inviteAdjectives = []string{
		"Sulten", "Glad", "Rask", "Stor", "Liten", "Varm", "Kald", "Modig",
		"Stille", "Klok", "Vill", "Smart", "Snill", "Rolig", "Ivrig", "Flott",
	}
	inviteNouns = []string{
		"Katt", "Hund", "Fugl", "Fisk", "Rev", "Elg", "Ugle", "Hare",
		"Sol", "Stjerne", "Storm", "Fjell", "Elv", "Skog", "Nokkel", "Klokke",
	}
)

// UserService encapsulates the business logic for accounts.
type UserService struct {
	repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser creates an account from a self-service registration. The
// very first account becomes the admin; everyone after that is an employee
// and is normally created through InviteUser instead.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if user.Email == "" || user.Name == "" || password == "" {
		return nil, fmt.Errorf("missing required user fields")
	}
	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	existingUser, _ := s.repo.GetUserByEmail(ctx, user.Email)
	if existingUser != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.HashedPassword = string(hashedPwd)

	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}
	if count == 0 {
		user.Role = models.RoleAdmin
	} else {
		user.Role = models.RoleEmployee
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")
	return createdUser, nil
}

// InviteUser creates an account on behalf of an admin with a generated
// temporary password and mails the credentials to the new employee.
func (s *UserService) InviteUser(ctx context.Context, name, userEmail, role string) (*models.User, string, error) {
	if role != models.RoleAdmin && role != models.RoleEmployee {
		return nil, "", fmt.Errorf("invalid role %q", role)
	}
	if !emailRegex.MatchString(userEmail) {
		return nil, "", fmt.Errorf("invalid email format")
	}

	existingUser, _ := s.repo.GetUserByEmail(ctx, userEmail)
	if existingUser != nil {
		return nil, "", fmt.Errorf("email already in use")
	}

	tempPassword := generatePassword()
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:           name,
		Email:          userEmail,
		HashedPassword: string(hashedPwd),
		Role:           role,
		HasLoggedIn:    false,
	}
	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to invite user: %v", err)
	}

	if err := email.SendInvite(userEmail, name, tempPassword); err != nil {
		// Account exists; the admin still sees the password in the response
		// and can pass it on manually.
		logrus.WithError(err).Warnf("Failed to send invite email to %s", userEmail)
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   role,
	}).Info("User invited")
	return createdUser, tempPassword, nil
}

func generatePassword() string {
	adjective := inviteAdjectives[rand.Intn(len(inviteAdjectives))]
	noun := inviteNouns[rand.Intn(len(inviteNouns))]
	return adjective + noun
}

// AuthenticateUser verifies credentials and flips has_logged_in on the
// first successful login.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		logrus.WithField("email", userEmail).Warn("User not found")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", userEmail).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.HasLoggedIn {
		if err := s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{"has_logged_in": true}); err != nil {
			logrus.WithError(err).Warn("Failed to flag first login")
		} else {
			user.HasLoggedIn = true
		}
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// ChangePassword replaces the user's password after verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(oldPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("new password must be at least 6 characters")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	return s.repo.UpdateUser(ctx, userID, map[string]interface{}{"hashed_password": string(hashedPwd)})
}

// GetUser retrieves a user by their hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", models.ErrNotFound)
	}
	return s.repo.GetUserByID(ctx, objID)
}

// GetAllUsers lists every account for the admin screen.
func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// UpdateLastActive stamps the user's last activity.
func (s *UserService) UpdateLastActive(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.TouchLastActive(ctx, userID)
}
