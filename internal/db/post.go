package db

// DisplayDateLayout 是文章日期的展示格式，例如 "April 03, 2024"
const DisplayDateLayout = "January 02, 2006"

// Post 定义了文章模型
type Post struct {
	ID       uint      `gorm:"primaryKey"`
	Title    string    `gorm:"size:250;not null"`
	Subtitle string    `gorm:"size:250;not null"`
	Date     string    `gorm:"size:250;not null"`
	Body     string    `gorm:"type:text;not null"`
	ImgURL   string    `gorm:"column:img_url;size:250;not null"`
	AuthorID uint      `gorm:"not null;index"`
	Author   User      `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:BlogPostID;constraint:OnDelete:CASCADE"`
}

// TableName 沿用旧版数据库的表名
func (Post) TableName() string {
	return "blog_posts"
}
