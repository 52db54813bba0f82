package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// パスワードのハッシュ化と照合
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) error
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptPasswordHasher) Verify(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// アクセストークン発行。sellerIDは0なら省略される。
type TokenIssuer interface {
	Issue(userID int64, role model.Role, sellerID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

type AuthUsecase struct {
	tx     repo.TransactionManager
	hasher PasswordHasher
	issuer TokenIssuer
	clock  Clock
}

func NewAuthUsecase(tx repo.TransactionManager, hasher PasswordHasher, issuer TokenIssuer, clock Clock) *AuthUsecase {
	return &AuthUsecase{tx: tx, hasher: hasher, issuer: issuer, clock: clock}
}

type RegisterInput struct {
	Email    string
	Password string

	//セラーとして登録する場合の表示名（空なら通常ユーザー）
	SellerName string
}

type RegisterOutput struct {
	UserID   int64      `json:"user_id"`
	Role     model.Role `json:"role"`
	SellerID int64      `json:"seller_id,omitempty"`
}

type LoginOutput struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	UserID    int64      `json:"user_id"`
	Role      model.Role `json:"role"`
	SellerID  int64      `json:"seller_id,omitempty"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !isEmailLike(email) {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "invalid password")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return RegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var out RegisterOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//email重複チェック
		if _, err := r.Users().FindByEmail(ctx, email); err == nil {
			return NewHTTPError(http.StatusConflict, "email already used")
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		role := model.RoleUser
		if strings.TrimSpace(in.SellerName) != "" {
			role = model.RoleSeller
		}

		now := u.clock.Now()
		userID, err := r.Users().Create(ctx, model.User{
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = RegisterOutput{UserID: userID, Role: role}

		if role == model.RoleSeller {
			sellerID, err := r.Sellers().Create(ctx, model.Seller{
				UserID:    userID,
				Name:      strings.TrimSpace(in.SellerName),
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out.SellerID = sellerID
		}
		return nil
	})

	if err != nil {
		return RegisterOutput{}, err
	}
	return out, nil
}

func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (LoginOutput, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	var out LoginOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByEmail(ctx, email)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := u.hasher.Verify(user.PasswordHash, password); err != nil {
			return NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}

		//セラーならseller_idもトークンに入れる
		var sellerID int64
		if user.Role == model.RoleSeller {
			if s, err := r.Sellers().FindByUserID(ctx, user.ID); err == nil {
				sellerID = s.ID
			}
		}

		now := u.clock.Now()
		token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, sellerID, now)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		if err := r.Users().UpdateLastLogin(ctx, user.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = LoginOutput{
			Token:     token,
			ExpiresAt: expiresAt,
			UserID:    user.ID,
			Role:      user.Role,
			SellerID:  sellerID,
		}
		return nil
	})

	if err != nil {
		return LoginOutput{}, err
	}
	return out, nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
