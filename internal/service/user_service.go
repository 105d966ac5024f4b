package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hetx19/Task-Manager-Backend/internal/cache"
	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/media"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
	"github.com/hetx19/Task-Manager-Backend/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserWithTaskCounts is a user row for admin listings, annotated with status
// counts over the tasks assigned to that user.
type UserWithTaskCounts struct {
	model.User
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// UpdateProfileInput carries a partial self-service profile update.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	Password        *string
	ProfileImageURL *string
}

// UserService exposes user and profile operations.
type UserService interface {
	List(ctx context.Context, actor policy.Actor) ([]UserWithTaskCounts, error)
	Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.User, error)
	Profile(ctx context.Context, actor policy.Actor) (*model.User, error)
	UpdateProfile(ctx context.Context, actor policy.Actor, input UpdateProfileInput) (*model.User, error)
	DeleteAccount(ctx context.Context, actor policy.Actor) error
}

type userService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	cache    *cache.Client
	uploader media.Uploader
}

// NewUserService builds a UserService with repositories, cache, and the
// image-hosting collaborator.
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, cache *cache.Client, uploader media.Uploader) UserService {
	return &userService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		cache:    cache,
		uploader: uploader,
	}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// List returns all users with their per-user task status counts. Admin only.
func (s *userService) List(ctx context.Context, actor policy.Actor) ([]UserWithTaskCounts, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]UserWithTaskCounts, 0, len(users))
	for _, user := range users {
		scope := user.ID
		counts, err := s.taskRepo.StatusCounts(ctx, &scope)
		if err != nil {
			return nil, fmt.Errorf("task counts for user %s: %w", user.ID, err)
		}
		result = append(result, UserWithTaskCounts{
			User:            user,
			PendingTasks:    counts[model.StatusPending],
			InProgressTasks: counts[model.StatusInProgress],
			CompletedTasks:  counts[model.StatusCompleted],
		})
	}
	return result, nil
}

// Get returns a user by id with cache-aside. Admin only.
func (s *userService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperrors.ErrForbidden
	}
	return s.findUser(ctx, id)
}

// Profile returns the actor's own record.
func (s *userService) Profile(ctx context.Context, actor policy.Actor) (*model.User, error) {
	return s.findUser(ctx, actor.ID)
}

// UpdateProfile mutates the actor's own record. Changing email to one already
// in use by another account is a conflict.
func (s *userService) UpdateProfile(ctx context.Context, actor policy.Actor, input UpdateProfileInput) (*model.User, error) {
	user, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(ctx, *input.Email)
		if err == nil && existing != nil && existing.ID != user.ID {
			return nil, apperrors.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if input.ProfileImageURL != nil {
		user.ProfileImageURL = *input.ProfileImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

// DeleteAccount removes the actor's own account with cascades: admins take
// their owned tasks with them, and everyone is stripped from assignee lists.
// The steps run as independent writes with no surrounding transaction, so a
// crash mid-sequence can leave dangling assignee references or orphaned
// tasks. Last write wins throughout.
func (s *userService) DeleteAccount(ctx context.Context, actor policy.Actor) error {
	user, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return err
	}

	if user.IsAdmin() {
		if err := s.taskRepo.DeleteByCreator(ctx, user.ID); err != nil {
			return fmt.Errorf("delete owned tasks: %w", err)
		}
	}

	assigned, err := s.taskRepo.FindAssigned(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("find assigned tasks: %w", err)
	}
	for i := range assigned {
		task := &assigned[i]
		task.RemoveAssignee(user.ID)
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return fmt.Errorf("remove assignee from task %s: %w", task.ID, err)
		}
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))

	// Best effort: the account is already gone, a leaked avatar is acceptable.
	if s.uploader != nil && user.ProfileImageURL != "" {
		_ = s.uploader.Delete(ctx, media.PublicIDFromURL(user.ProfileImageURL))
	}
	return nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}
