package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "github.com/hetx19/Task-Manager-Backend/internal/errors"
	"github.com/hetx19/Task-Manager-Backend/internal/model"
	"github.com/hetx19/Task-Manager-Backend/internal/policy"
)

func TestUserService_List(t *testing.T) {
	t.Run("non-admin is denied", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockTasks := new(MockTaskRepository)
		service := NewUserService(mockUsers, mockTasks, nil, nil)

		users, err := service.List(context.Background(), userActor())
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Nil(t, users)
		mockUsers.AssertNotCalled(t, "List")
	})

	t.Run("admin gets users annotated with task counts", func(t *testing.T) {
		alice := model.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
		bob := model.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"}

		mockUsers := new(MockUserRepository)
		mockUsers.On("List", mock.Anything).Return([]model.User{alice, bob}, nil)

		taskRepo := new(MockTaskRepository)
		taskRepo.On("StatusCounts", mock.Anything, &alice.ID).Return(map[model.TaskStatus]int64{
			model.StatusPending:   2,
			model.StatusCompleted: 1,
		}, nil)
		taskRepo.On("StatusCounts", mock.Anything, &bob.ID).Return(map[model.TaskStatus]int64{}, nil)

		service := NewUserService(mockUsers, taskRepo, nil, nil)
		users, err := service.List(context.Background(), adminActor())

		assert.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, int64(2), users[0].PendingTasks)
		assert.Equal(t, int64(0), users[0].InProgressTasks)
		assert.Equal(t, int64(1), users[0].CompletedTasks)
		assert.Equal(t, int64(0), users[1].PendingTasks)
		mockUsers.AssertExpectations(t)
		taskRepo.AssertExpectations(t)
	})
}

func TestUserService_Get(t *testing.T) {
	userID := uuid.New()

	t.Run("non-admin is denied", func(t *testing.T) {
		service := NewUserService(new(MockUserRepository), new(MockTaskRepository), nil, nil)

		user, err := service.Get(context.Background(), userActor(), userID)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Nil(t, user)
	})

	t.Run("missing user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		service := NewUserService(mockUsers, new(MockTaskRepository), nil, nil)
		user, err := service.Get(context.Background(), adminActor(), userID)

		assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
		assert.Nil(t, user)
	})

	t.Run("admin reads any user", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Name: "Alice"}, nil)

		service := NewUserService(mockUsers, new(MockTaskRepository), nil, nil)
		user, err := service.Get(context.Background(), adminActor(), userID)

		assert.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	actor := userActor()

	t.Run("changing email to a taken one is a conflict", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, actor.ID).Return(&model.User{
			ID:    actor.ID,
			Email: "old@example.com",
		}, nil)
		mockUsers.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{
			ID:    uuid.New(),
			Email: "taken@example.com",
		}, nil)

		email := "taken@example.com"
		service := NewUserService(mockUsers, new(MockTaskRepository), nil, nil)
		user, err := service.UpdateProfile(context.Background(), actor, UpdateProfileInput{Email: &email})

		assert.True(t, errors.Is(err, apperrors.ErrEmailTaken))
		assert.Nil(t, user)
		mockUsers.AssertNotCalled(t, "Update")
	})

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, actor.ID).Return(&model.User{
			ID:    actor.ID,
			Name:  "Old Name",
			Email: "old@example.com",
		}, nil)
		mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		name := "New Name"
		service := NewUserService(mockUsers, new(MockTaskRepository), nil, nil)
		user, err := service.UpdateProfile(context.Background(), actor, UpdateProfileInput{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Equal(t, "old@example.com", user.Email)
		mockUsers.AssertExpectations(t)
	})

	t.Run("password change rehashes", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, actor.ID).Return(&model.User{
			ID:           actor.ID,
			PasswordHash: "old-hash",
		}, nil)
		mockUsers.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		password := "new-password"
		service := NewUserService(mockUsers, new(MockTaskRepository), nil, nil)
		user, err := service.UpdateProfile(context.Background(), actor, UpdateProfileInput{Password: &password})

		assert.NoError(t, err)
		assert.NotEqual(t, "old-hash", user.PasswordHash)
		assert.NotEqual(t, password, user.PasswordHash)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Run("admin takes owned tasks along and is stripped from assignments", func(t *testing.T) {
		actor := policy.Actor{ID: uuid.New(), Role: model.RoleAdmin}
		other := uuid.New()

		assigned := model.Task{
			ID:         uuid.New(),
			Title:      "shared work",
			CreatedBy:  other,
			AssignedTo: []uuid.UUID{actor.ID, other},
		}

		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, actor.ID).Return(&model.User{
			ID:   actor.ID,
			Role: model.RoleAdmin,
		}, nil)
		mockUsers.On("Delete", mock.Anything, actor.ID).Return(nil)

		mockTasks := new(MockTaskRepository)
		mockTasks.On("DeleteByCreator", mock.Anything, actor.ID).Return(nil)
		mockTasks.On("FindAssigned", mock.Anything, actor.ID).Return([]model.Task{assigned}, nil)
		mockTasks.On("Update", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
			// The task survives with the departing user stripped out.
			return task.ID == assigned.ID && !task.IsAssignedTo(actor.ID) && task.IsAssignedTo(other)
		})).Return(nil)

		service := NewUserService(mockUsers, mockTasks, nil, nil)
		assert.NoError(t, service.DeleteAccount(context.Background(), actor))

		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})

	t.Run("regular user keeps other people's tasks intact", func(t *testing.T) {
		actor := userActor()

		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, actor.ID).Return(&model.User{
			ID:   actor.ID,
			Role: model.RoleUser,
		}, nil)
		mockUsers.On("Delete", mock.Anything, actor.ID).Return(nil)

		mockTasks := new(MockTaskRepository)
		mockTasks.On("FindAssigned", mock.Anything, actor.ID).Return([]model.Task{}, nil)

		service := NewUserService(mockUsers, mockTasks, nil, nil)
		assert.NoError(t, service.DeleteAccount(context.Background(), actor))

		mockTasks.AssertNotCalled(t, "DeleteByCreator")
		mockUsers.AssertExpectations(t)
		mockTasks.AssertExpectations(t)
	})
}
