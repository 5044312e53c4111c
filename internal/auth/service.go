// Package auth はユーザー登録・ログイン・セッショントークン管理を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/SanketZore/Job-Portal-CyberNX/internal/model"
	"github.com/SanketZore/Job-Portal-CyberNX/internal/repository"
)

// RegisterInput は登録リクエストの入力を表す。
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Company  string // 雇用者のみ
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register は新規ユーザーを登録し、セッショントークンを発行する。
// パスワードはbcryptハッシュのみを保存する。
// メールアドレスが既に登録済みの場合はDUPLICATE_EMAILエラーを返す。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	if input.Name == "" {
		return nil, "", model.NewValidationError("名前は必須です")
	}
	if input.Email == "" {
		return nil, "", model.NewValidationError("メールアドレスは必須です")
	}
	if input.Password == "" {
		return nil, "", model.NewValidationError("パスワードは必須です")
	}
	if !input.Role.IsValid() {
		return nil, "", model.NewValidationError("役割はemployerまたはjobseekerを指定してください")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Company:      input.Company,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", model.NewDuplicateEmailError()
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, token, nil
}

// Login はメールアドレスとパスワードを検証し、セッショントークンを発行する。
// メールアドレス不明とパスワード不一致のどちらも同一のエラーを返し、
// アカウントの存在を推測されないようにする。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", model.NewValidationError("メールアドレスとパスワードは必須です")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return user, token, nil
}

// ResolveToken はセッショントークンを検証し、対応するユーザーを返す。
// 署名不正・期限切れはINVALID_TOKEN、ユーザー消滅はUSER_NOT_FOUNDになる。
func (s *Service) ResolveToken(ctx context.Context, tokenString string) (*model.User, error) {
	userID, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, model.NewInvalidTokenError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}
