package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath 是未配置 DATABASE_PATH 时使用的数据库文件。
const DefaultPath = "blog.db"

// Init 打开 databasePath 指向的 SQLite 文件并执行迁移。
// databasePath 为空时将回退到默认值 blog.db。
func Init(databasePath string, log logger.Interface) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultPath
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := Connect(path, log)
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Connect opens a gorm handle with foreign keys enforced and driver errors
// translated into gorm sentinels such as gorm.ErrDuplicatedKey.
func Connect(dsn string, log logger.Interface) (*gorm.DB, error) {
	if log == nil {
		log = logger.Default.LogMode(logger.Silent)
	}

	gdb, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, nil
}

// ErrEmailCollision 表示旧库中存在仅大小写不同的重复邮箱，无法统一为小写
var ErrEmailCollision = errors.New("users differ only by email case")

// ErrPostWithoutAuthor 表示旧库中存在作者缺失的文章
var ErrPostWithoutAuthor = errors.New("post has no author")

// Migrate creates the users, blog_posts and comments tables. Files created by
// the earlier Flask version of the blog share the same table and column names;
// their rows are tidied up and the tables rebuilt with the current constraints.
//
// SQLite rebuilds a table by copying it and dropping the original, which
// foreign key enforcement rejects once rows reference each other. The whole
// upgrade therefore runs on one pinned connection with enforcement off, and
// the result is verified with foreign_key_check before it is turned back on.
func Migrate(gdb *gorm.DB) error {
	return gdb.Connection(func(conn *gorm.DB) (err error) {
		if err := conn.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
			return fmt.Errorf("disable foreign keys: %w", err)
		}
		defer func() {
			if restoreErr := conn.Exec("PRAGMA foreign_keys = ON").Error; restoreErr != nil && err == nil {
				err = fmt.Errorf("enable foreign keys: %w", restoreErr)
			}
		}()

		if err := prepareLegacyRows(conn); err != nil {
			return err
		}
		if err := conn.AutoMigrate(&User{}, &Post{}, &Comment{}); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
		if err := checkForeignKeys(conn); err != nil {
			return err
		}
		return backfillRoles(conn)
	})
}

// prepareLegacyRows 在重建表之前修正旧数据，使其满足新的 NOT NULL 与外键约束
func prepareLegacyRows(conn *gorm.DB) error {
	m := conn.Migrator()

	if m.HasTable(&User{}) {
		var collisions []string
		if err := conn.Raw(`SELECT LOWER(TRIM(email)) AS normalized FROM users
			GROUP BY normalized HAVING COUNT(*) > 1`).Scan(&collisions).Error; err != nil {
			return fmt.Errorf("check email collisions: %w", err)
		}
		if len(collisions) > 0 {
			return fmt.Errorf("%w: %s", ErrEmailCollision, strings.Join(collisions, ", "))
		}
		if err := conn.Exec(`UPDATE users SET email = LOWER(TRIM(email))
			WHERE email <> LOWER(TRIM(email))`).Error; err != nil {
			return fmt.Errorf("normalize emails: %w", err)
		}
	}

	if m.HasTable(&Post{}) {
		var orphaned []uint
		if err := conn.Raw(`SELECT id FROM blog_posts
			WHERE author_id IS NULL OR author_id NOT IN (SELECT id FROM users)
			ORDER BY id`).Scan(&orphaned).Error; err != nil {
			return fmt.Errorf("check post authors: %w", err)
		}
		if len(orphaned) > 0 {
			return fmt.Errorf("%w: blog_posts ids %v; set author_id before migrating", ErrPostWithoutAuthor, orphaned)
		}
	}

	// 旧版删除文章时不会删除评论，这些评论已无处展示
	if m.HasTable(&Comment{}) {
		if err := conn.Exec(`DELETE FROM comments
			WHERE blog_post_id IS NULL OR blog_post_id NOT IN (SELECT id FROM blog_posts)
			OR author_id IS NULL OR author_id NOT IN (SELECT id FROM users)`).Error; err != nil {
			return fmt.Errorf("remove orphaned comments: %w", err)
		}
	}
	return nil
}

type foreignKeyViolation struct {
	Table  string `gorm:"column:table"`
	RowID  int64  `gorm:"column:rowid"`
	Parent string `gorm:"column:parent"`
}

func checkForeignKeys(conn *gorm.DB) error {
	var violations []foreignKeyViolation
	if err := conn.Raw("PRAGMA foreign_key_check").Scan(&violations).Error; err != nil {
		return fmt.Errorf("check foreign keys: %w", err)
	}
	if len(violations) > 0 {
		v := violations[0]
		return fmt.Errorf("foreign key check failed: %d violations, first %s row %d -> %s",
			len(violations), v.Table, v.RowID, v.Parent)
	}
	return nil
}

func backfillRoles(conn *gorm.DB) error {
	if err := conn.Model(&User{}).
		Where("role = '' OR role IS NULL").
		Update("role", RoleReader).Error; err != nil {
		return fmt.Errorf("backfill user roles: %w", err)
	}

	// 旧库中 id 为 1 的用户即管理员
	var admins int64
	if err := conn.Model(&User{}).Where("role = ?", RoleAdmin).Count(&admins).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins == 0 {
		if err := conn.Model(&User{}).
			Where("id = ?", 1).
			Update("role", RoleAdmin).Error; err != nil {
			return fmt.Errorf("backfill admin role: %w", err)
		}
	}
	return nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
