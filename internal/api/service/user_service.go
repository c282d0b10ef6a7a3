package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
	Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, username string) error
	// Self-service profile endpoints for /users/me. UpdateSelf cannot change
	// the role: the request type carries no role field.
	GetSelf(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateSelf(ctx context.Context, userID string, req dto.UpdateSelfRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) (*dto.PaginatedResponse, error) {
	users, total, err := s.userRepo.Search(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}

	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if errs := ValidateUsername(req.Username); errs != nil {
		return nil, errs
	}
	if errs := ValidateEmail(req.Email); errs != nil {
		return nil, errs
	}

	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Role != nil {
		user.Role = *req.Role
	}
	return s.applyProfilePatch(ctx, user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio)
}

func (s *userService) Delete(ctx context.Context, username string) error {
	if err := s.userRepo.DeleteByUsername(ctx, username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetSelf(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateSelf(ctx context.Context, userID string, req dto.UpdateSelfRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.applyProfilePatch(ctx, user, req.Username, req.Email, req.FirstName, req.LastName, req.Bio)
}

func (s *userService) applyProfilePatch(ctx context.Context, user *models.User, username, email, firstName, lastName, bio *string) (*dto.UserResponse, error) {
	if username != nil && *username != user.Username {
		if errs := ValidateUsername(*username); errs != nil {
			return nil, errs
		}
		if _, err := s.userRepo.FindByUsername(ctx, *username); err == nil {
			return nil, ErrUsernameTaken
		}
		user.Username = *username
	}
	if email != nil && *email != user.Email {
		if errs := ValidateEmail(*email); errs != nil {
			return nil, errs
		}
		if _, err := s.userRepo.FindByEmail(ctx, *email); err == nil {
			return nil, ErrEmailTaken
		}
		user.Email = *email
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return dto.FromModelToUserResponse(user), nil
}
