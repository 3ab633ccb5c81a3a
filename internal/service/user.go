package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"plan-marketplace/internal/auth"
	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Profile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileRequest) (*model.User, error)
	// RequestRole moves the user into a role that needs admin approval.
	RequestRole(ctx context.Context, user *model.User, role model.Role) (*model.User, error)
	List(ctx context.Context, role model.Role, page repository.Pagination) (*dto.Page[*model.User], error)
	SetRole(ctx context.Context, id string, req *dto.SetRoleRequest) (*model.User, error)
	Delete(ctx context.Context, admin *model.User, id string) error
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	logger *slog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" {
		return nil, invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("a valid email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	role := req.Role
	if role == "" {
		role = model.RoleBuyer
	}
	if !role.Valid() || role == model.RoleAdmin {
		return nil, invalid("role %q cannot be registered", role)
	}
	status := model.StatusApproved
	if role.NeedsApproval() {
		status = model.StatusPending
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         role,
		Status:       status,
		CompanyName:  req.CompanyName,
		Profession:   req.Profession,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("store user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.Hex()),
		slog.String("role", string(role)),
	)
	return s.authResponse(user)
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.authResponse(user)
}

func (s *userServiceImpl) authResponse(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *userServiceImpl) Profile(ctx context.Context, id string) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileRequest) (*model.User, error) {
	if req.Password != "" && len(req.Password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	// omitted fields keep their stored value
	updated := *user
	keep(&updated.Name, req.Name)
	keep(&updated.Phone, req.Phone)
	keep(&updated.CompanyName, req.CompanyName)
	keep(&updated.Profession, req.Profession)
	keep(&updated.Address, req.Address)

	if err := s.userRepo.UpdateProfile(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.userRepo.SetPasswordHash(ctx, user.ID, string(hash)); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
	}
	return &updated, nil
}

func (s *userServiceImpl) RequestRole(ctx context.Context, user *model.User, role model.Role) (*model.User, error) {
	if !role.NeedsApproval() {
		return nil, invalid("role %q cannot be requested", role)
	}
	if user.IsAdmin() {
		return nil, invalid("admins cannot change their own role")
	}
	if err := s.userRepo.SetRoleStatus(ctx, user.ID, role, model.StatusPending); err != nil {
		return nil, fmt.Errorf("request role: %w", err)
	}
	updated := *user
	updated.Role = role
	updated.Status = model.StatusPending
	return &updated, nil
}

func (s *userServiceImpl) List(ctx context.Context, role model.Role, page repository.Pagination) (*dto.Page[*model.User], error) {
	if role != "" && !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	users, total, err := s.userRepo.List(ctx, role, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return pageOf(users, total, page), nil
}

func (s *userServiceImpl) SetRole(ctx context.Context, id string, req *dto.SetRoleRequest) (*model.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	role := req.Role
	if role == "" {
		role = user.Role
	}
	status := req.Status
	if status == "" {
		status = user.Status
	}
	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}

	if err := s.userRepo.SetRoleStatus(ctx, oid, role, status); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	user.Role = role
	user.Status = status
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, admin *model.User, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if admin != nil && admin.ID == oid {
		return invalid("admins cannot delete themselves")
	}
	if err := s.userRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func keep(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
