package db

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := Connect(dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

var legacySchema = []string{
	`CREATE TABLE users (id INTEGER NOT NULL PRIMARY KEY, email VARCHAR(250) NOT NULL UNIQUE, password VARCHAR(250) NOT NULL, name VARCHAR(250) NOT NULL)`,
	`CREATE TABLE blog_posts (id INTEGER NOT NULL PRIMARY KEY, title VARCHAR(250) NOT NULL, subtitle VARCHAR(250) NOT NULL, date VARCHAR(250) NOT NULL, body TEXT NOT NULL, img_url VARCHAR(250) NOT NULL, author_id INTEGER REFERENCES users(id))`,
	`CREATE TABLE comments (id INTEGER NOT NULL PRIMARY KEY, text TEXT NOT NULL, author_id INTEGER REFERENCES users(id), blog_post_id INTEGER REFERENCES blog_posts(id))`,
}

func createLegacyDB(t *testing.T, rows ...string) *gorm.DB {
	t.Helper()
	gdb := openTestDB(t)
	for _, stmt := range append(legacySchema, rows...) {
		require.NoError(t, gdb.Exec(stmt).Error, stmt)
	}
	return gdb
}

func TestMigrateBackfillsLegacyFlaskSchema(t *testing.T) {
	gdb := createLegacyDB(t,
		`INSERT INTO users (id, email, password, name) VALUES (1, 'owner@example.com', 'pbkdf2:sha256:260000$abcdefgh$00', 'Owner')`,
		`INSERT INTO users (id, email, password, name) VALUES (2, 'reader@example.com', 'pbkdf2:sha256:260000$abcdefgh$00', 'Reader')`,
	)

	require.NoError(t, Migrate(gdb))

	var users []User
	require.NoError(t, gdb.Order("id asc").Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, RoleAdmin, users[0].Role)
	assert.True(t, users[0].IsAdmin())
	assert.Equal(t, RoleReader, users[1].Role)
	assert.False(t, users[1].IsAdmin())
}

func TestMigrateKeepsLegacyPostsAndComments(t *testing.T) {
	gdb := createLegacyDB(t,
		`INSERT INTO users (id, email, password, name) VALUES (1, 'Owner@Example.com', 'hash', 'Owner')`,
		`INSERT INTO users (id, email, password, name) VALUES (2, 'reader@example.com', 'hash', 'Reader')`,
		`INSERT INTO blog_posts (id, title, subtitle, date, body, img_url, author_id) VALUES (1, 'First', 'sub', 'April 03, 2024', '<p>one</p>', 'https://img.example.com/1.jpg', 1)`,
		`INSERT INTO blog_posts (id, title, subtitle, date, body, img_url, author_id) VALUES (2, 'Second', 'sub', 'April 04, 2024', '<p>two</p>', 'https://img.example.com/2.jpg', 1)`,
		`INSERT INTO comments (id, text, author_id, blog_post_id) VALUES (1, 'nice', 2, 1)`,
		`INSERT INTO comments (id, text, author_id, blog_post_id) VALUES (2, 'agreed', 1, 2)`,
		`INSERT INTO comments (id, text, author_id, blog_post_id) VALUES (3, 'left behind', 2, NULL)`,
	)

	require.NoError(t, Migrate(gdb))

	var owner User
	require.NoError(t, gdb.First(&owner, 1).Error)
	assert.Equal(t, "owner@example.com", owner.Email)
	assert.True(t, owner.IsAdmin())

	var posts []Post
	require.NoError(t, gdb.Order("id asc").Find(&posts).Error)
	require.Len(t, posts, 2)
	assert.Equal(t, "First", posts[0].Title)
	assert.Equal(t, "<p>two</p>", posts[1].Body)
	assert.Equal(t, uint(1), posts[1].AuthorID)

	var comments []Comment
	require.NoError(t, gdb.Order("id asc").Find(&comments).Error)
	require.Len(t, comments, 2)
	assert.Equal(t, "nice", comments[0].Text)
	assert.Equal(t, uint(1), comments[0].BlogPostID)
	assert.Equal(t, "agreed", comments[1].Text)

	var enabled int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	// 升级后再次迁移不应改变数据
	require.NoError(t, Migrate(gdb))
	var count int64
	require.NoError(t, gdb.Model(&Comment{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestMigrateRejectsCaseOnlyEmailDuplicates(t *testing.T) {
	gdb := createLegacyDB(t,
		`INSERT INTO users (id, email, password, name) VALUES (1, 'ada@example.com', 'hash', 'Ada')`,
		`INSERT INTO users (id, email, password, name) VALUES (2, 'Ada@Example.com', 'hash', 'Ada again')`,
	)

	err := Migrate(gdb)
	require.ErrorIs(t, err, ErrEmailCollision)
	assert.Contains(t, err.Error(), "ada@example.com")

	var emails []string
	require.NoError(t, gdb.Raw("SELECT email FROM users ORDER BY id").Scan(&emails).Error)
	assert.Equal(t, []string{"ada@example.com", "Ada@Example.com"}, emails)
}

func TestMigrateRejectsPostsWithoutAuthor(t *testing.T) {
	gdb := createLegacyDB(t,
		`INSERT INTO users (id, email, password, name) VALUES (1, 'owner@example.com', 'hash', 'Owner')`,
		`INSERT INTO blog_posts (id, title, subtitle, date, body, img_url, author_id) VALUES (7, 'Lost', 'sub', 'April 03, 2024', 'x', 'https://img.example.com/7.jpg', NULL)`,
	)

	err := Migrate(gdb)
	require.ErrorIs(t, err, ErrPostWithoutAuthor)
	assert.Contains(t, err.Error(), "[7]")
}

func TestMigrateIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, Migrate(gdb))
	require.NoError(t, gdb.Create(&User{Email: "a@example.com", Password: "x", Name: "A", Role: RoleReader}).Error)
	require.NoError(t, gdb.Create(&User{Email: "b@example.com", Password: "x", Name: "B", Role: RoleAdmin}).Error)
	require.NoError(t, Migrate(gdb))

	var first User
	require.NoError(t, gdb.First(&first, 1).Error)
	assert.Equal(t, RoleReader, first.Role, "existing admin must not be reassigned")
}

func TestInitCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blog.db")

	gdb, err := Init(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.True(t, gdb.Migrator().HasTable(&Post{}))
	assert.True(t, gdb.Migrator().HasTable(&Comment{}))
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "plain path", dsn: "blog.db", want: "blog.db?_foreign_keys=1"},
		{name: "uri with query", dsn: "file:x?mode=memory", want: "file:x?mode=memory&_foreign_keys=1"},
		{name: "already set", dsn: "blog.db?_foreign_keys=0", want: "blog.db?_foreign_keys=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withForeignKeys(tt.dsn))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "someone@example.com", NormalizeEmail("  SomeOne@Example.com "))
}
