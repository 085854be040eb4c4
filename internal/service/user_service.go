package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SraaaamX/realestate-api/internal/apperr"
	"github.com/SraaaamX/realestate-api/internal/dto"
	"github.com/SraaaamX/realestate-api/internal/models"
	"github.com/SraaaamX/realestate-api/internal/policy"
	"github.com/SraaaamX/realestate-api/internal/repository"
	"github.com/SraaaamX/realestate-api/internal/storage"
	"github.com/SraaaamX/realestate-api/internal/utils"
	"github.com/SraaaamX/realestate-api/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid credentials")
	ErrEmailAlreadyExists = apperr.New(apperr.Conflict, "email already exists")
	ErrUserAlreadyExists  = apperr.New(apperr.Conflict, "email or nickname already exists")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "user not found")
	ErrNoUsers            = apperr.New(apperr.NotFound, "no users found")
)

type UserService struct {
	userRepo *repository.UserRepository
	tokens   *utils.TokenManager
	files    storage.FileStore
}

func NewUserService(userRepo *repository.UserRepository, tokens *utils.TokenManager, files storage.FileStore) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		files:    files,
	}
}

// Register creates an account and signs a token for it. profilePic is the
// reference of an already stored upload, or empty; it is released when
// registration fails.
func (s *UserService) Register(ctx context.Context, req *dto.CreateUserRequest, profilePic string, actor *policy.Actor) (user *models.User, token string, err error) {
	start := time.Now()
	persisted := false
	defer func() {
		if err != nil && !persisted {
			releaseFile(s.files, profilePic)
		}
	}()

	email := dto.NormalizeEmail(req.Email)

	logger.Log.Debug("Processing user registration",
		zap.String("nickname", req.Nickname),
		zap.String("email", email),
	)

	// 1. Validate input
	if err := s.validateRegisterInput(req); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	// 2. Only admins may choose a role
	if dropped := policy.FilterUserCreate(actor, req); len(dropped) > 0 {
		logger.Log.Warn("Dropped protected fields from registration",
			zap.String("email", email),
			zap.Strings("fields", dropped),
		)
	}
	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.Valid() {
			return nil, "", invalidInput("invalid role: %s", req.Role)
		}
	}

	// 3. Check if email already exists
	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", internalError(err)
	}
	if existingUser != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", email),
		)
		return nil, "", ErrEmailAlreadyExists
	}

	// 4. Hash password (bcrypt)
	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, "", internalError(err)
	}
	hashDuration := time.Since(hashStart)

	// 5. Create user
	user = &models.User{
		Name:         strings.TrimSpace(req.Name),
		Nickname:     strings.TrimSpace(req.Nickname),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		Phone:        trimmedOrNil(req.Phone),
	}
	if profilePic != "" {
		user.ProfilePic = &profilePic
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			logger.Log.Warn("User already exists",
				zap.String("nickname", user.Nickname),
				zap.String("email", email),
			)
			return nil, "", ErrUserAlreadyExists
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", internalError(err)
	}
	persisted = true

	// 6. Generate JWT token
	token, err = s.tokens.Issue(user)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", internalError(err)
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	start := time.Now()
	email = dto.NormalizeEmail(email)

	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.MissingField, "email and password are required")
	}

	// 1. Get user by email
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", internalError(err)
	}
	if user == nil {
		utils.SimulateVerify(password)
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	// 2. Verify password
	verifyStart := time.Now()
	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", ErrInvalidCredentials
	}
	verifyDuration := time.Since(verifyStart)

	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID),
		)
		return nil, "", ErrInvalidCredentials
	}

	// 3. Generate JWT token
	token, err := s.tokens.Issue(user)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", internalError(err)
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID),
		zap.Duration("password_verify_duration", verifyDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, actor *policy.Actor) ([]*models.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		logger.Log.Error("Failed to fetch all users",
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	logger.Log.Debug("Fetched all users",
		zap.Int("count", len(users)),
	)

	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id string, actor *policy.Actor) (*models.User, error) {
	if err := policy.RequireSelfOrAdmin(actor, id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Update applies a partial update. A role change from a non-admin is dropped
// silently and the rest of the update still applies. profilePic replaces the
// current picture, which is released only after the write succeeds.
func (s *UserService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, profilePic string, actor *policy.Actor) (user *models.User, err error) {
	persisted := false
	defer func() {
		if err != nil && !persisted {
			releaseFile(s.files, profilePic)
		}
	}()

	if dropped := policy.FilterUserUpdate(actor, req); len(dropped) > 0 {
		logger.Log.Warn("Dropped protected fields from user update",
			zap.String("user_id", id),
			zap.Strings("fields", dropped),
		)
	}

	// 1. Validate input
	if err := s.validateUpdateInput(req); err != nil {
		logger.Log.Warn("User update validation failed",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	// 2. Policy
	if err := policy.RequireSelfOrAdmin(actor, id); err != nil {
		logger.Log.Warn("User update denied",
			zap.String("user_id", id),
			zap.String("actor_id", actorID(actor)),
		)
		return nil, err
	}

	// 3. Load current record
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var passwordHash string
	if req.Password != nil && *req.Password != "" {
		if passwordHash, err = utils.HashPassword(*req.Password); err != nil {
			logger.Log.Error("Failed to hash password",
				zap.Error(err),
			)
			return nil, internalError(err)
		}
	}

	updates := req.ToUpdates(passwordHash)
	if profilePic != "" {
		updates["profile_pic"] = profilePic
	}
	if len(updates) == 0 {
		return current, nil
	}

	// 4. Persist
	found, err := s.userRepo.UpdateUser(ctx, id, updates)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Error("Failed to update user",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if !found {
		return nil, ErrUserNotFound
	}
	persisted = true

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// 5. Release the replaced picture
	if profilePic != "" && current.ProfilePic != nil && *current.ProfilePic != profilePic {
		releaseFile(s.files, *current.ProfilePic)
	}

	logger.Log.Info("User updated successfully",
		zap.String("user_id", id),
		zap.Int("fields", len(updates)),
	)

	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string, actor *policy.Actor) error {
	if err := policy.RequireSelfOrAdmin(actor, id); err != nil {
		return err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	found, err := s.userRepo.DeleteUser(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to delete user",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return internalError(err)
	}
	if !found {
		return ErrUserNotFound
	}

	if current.ProfilePic != nil {
		releaseFile(s.files, *current.ProfilePic)
	}

	logger.Log.Info("User deleted successfully",
		zap.String("user_id", id),
		zap.String("actor_id", actorID(actor)),
	)

	return nil
}

func (s *UserService) load(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Error("Failed to get user by id",
			zap.String("user_id", id),
			zap.Error(err),
		)
		return nil, internalError(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) validateRegisterInput(req *dto.CreateUserRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Nickname) == "" {
		missing = append(missing, "nickname")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return missingFields(missing)
	}

	if len(req.Nickname) > 50 {
		return invalidInput("nickname must be at most 50 characters")
	}
	if !emailRegex.MatchString(dto.NormalizeEmail(req.Email)) {
		return invalidInput("invalid email format")
	}
	if len(req.Email) > 100 {
		return invalidInput("email too long")
	}
	if len(req.Password) > 72 {
		return invalidInput("password too long")
	}

	return nil
}

func (s *UserService) validateUpdateInput(req *dto.UpdateUserRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return invalidInput("name cannot be empty")
	}
	if req.Nickname != nil && strings.TrimSpace(*req.Nickname) == "" {
		return invalidInput("nickname cannot be empty")
	}
	if req.Email != nil && !emailRegex.MatchString(dto.NormalizeEmail(*req.Email)) {
		return invalidInput("invalid email format")
	}
	if req.Password != nil && len(*req.Password) > 72 {
		return invalidInput("password too long")
	}
	if req.Role != nil && !models.Role(*req.Role).Valid() {
		return invalidInput("invalid role: %s", *req.Role)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func actorID(actor *policy.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.SubjectID
}
