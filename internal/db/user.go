package db

import "strings"

const (
	// RoleAdmin 拥有文章的创建、编辑与删除权限，全站仅有一个
	RoleAdmin = "admin"
	// RoleReader 只能发表评论
	RoleReader = "reader"
)

// User 定义了用户模型
type User struct {
	ID       uint      `gorm:"primaryKey"`
	Email    string    `gorm:"size:250;unique;not null"`
	Password string    `gorm:"size:250;not null" json:"-"`
	Name     string    `gorm:"size:250;not null"`
	Role     string    `gorm:"size:16;not null;default:reader"`
	Posts    []Post    `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:AuthorID"`
}

// TableName 沿用旧版数据库的表名
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the account carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NormalizeEmail 统一邮箱格式，注册与登录都经过这里
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
