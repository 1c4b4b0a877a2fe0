package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/dberr"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type RegisterInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	ReferralCode string // optional: code of the referring user
}

func (r *Repo) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	var referredBy *string
	if code := strings.TrimSpace(in.ReferralCode); code != "" {
		var ref User
		if err := r.db.WithContext(ctx).First(&ref, "referral_code = ?", code).Error; err == nil {
			referredBy = &ref.ID
		}
		// Unknown codes are ignored: signup must not fail on a stale link.
	}

	now := time.Now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleCustomer,
		ReferralCode: newReferralCode(),
		ReferredBy:   referredBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.FirstName != "" {
		fn := strings.TrimSpace(in.FirstName)
		u.FirstName = &fn
	}
	if in.LastName != "" {
		ln := strings.TrimSpace(in.LastName)
		u.LastName = &ln
	}

	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		if dberr.IsDuplicateKey(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

func (r *Repo) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *Repo) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return u, err
}

// Referrer resolves the referring user for a given user id, if any.
func (r *Repo) Referrer(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	if u.ReferredBy == nil {
		return nil, nil
	}
	var ref User
	if err := r.db.WithContext(ctx).First(&ref, "id = ?", *u.ReferredBy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ref, nil
}

func (r *Repo) SetRole(ctx context.Context, userID, role string) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"role": role, "updated_at": time.Now()}).Error
}

func (r *Repo) SetCommissionRate(ctx context.Context, userID string, ratePercent float64) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"commission_rate": ratePercent, "updated_at": time.Now()}).Error
}

func newReferralCode() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return "HP" + strings.ToUpper(hex.EncodeToString(b))
}
