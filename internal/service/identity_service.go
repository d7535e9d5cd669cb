package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/metrics"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// IdentityService 负责注册、登录校验与按 ID 加载用户
type IdentityService struct {
	db     *gorm.DB
	hasher PasswordHasher
	log    logrus.FieldLogger
}

// NewIdentityService creates an IdentityService. iterations <= 0 selects
// DefaultPasswordIterations.
func NewIdentityService(gdb *gorm.DB, iterations int, log logrus.FieldLogger) *IdentityService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IdentityService{
		db:     gdb,
		hasher: PasswordHasher{Iterations: iterations},
		log:    log,
	}
}

// Register creates a new account. The first account written to an empty
// users table is the administrator; every later account is a reader.
func (s *IdentityService) Register(ctx context.Context, email, password, name string) (*db.User, error) {
	email = db.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	switch {
	case email == "":
		return nil, requiredField("email")
	case password == "":
		return nil, requiredField("password")
	case name == "":
		return nil, requiredField("name")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := db.User{Email: email, Password: hashed, Name: name, Role: db.RoleReader}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&db.User{}).Where("LOWER(email) = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateEmail
		}

		var total int64
		if err := tx.Model(&db.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			user.Role = db.RoleAdmin
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	metrics.RecordContentEvent(metrics.EventUserRegistered)
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return &user, nil
}

// Authenticate 校验邮箱与密码，区分邮箱不存在与密码错误两种情况。
// 邮箱按小写比较，旧库中保留原始大小写的账号同样可以登录。
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", db.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordContentEvent(metrics.EventLoginFailed)
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if !s.hasher.Check(user.Password, password) {
		metrics.RecordContentEvent(metrics.EventLoginFailed)
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FindByID loads the account bound to a session.
func (s *IdentityService) FindByID(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
