package db

// Comment 是读者在文章下的留言，随文章一起删除
type Comment struct {
	ID         uint   `gorm:"primaryKey"`
	Text       string `gorm:"type:text;not null"`
	AuthorID   uint   `gorm:"not null;index"`
	Author     User   `gorm:"foreignKey:AuthorID"`
	BlogPostID uint   `gorm:"not null;index"`
}

// TableName 沿用旧版数据库的表名
func (Comment) TableName() string {
	return "comments"
}
