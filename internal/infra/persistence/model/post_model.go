package model

import (
	"time"

	"bookmarket/internal/domain/entity"
)

// PostModel mirrors the 'posts' table: one sell listing per row.
type PostModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	BookID    int64  `gorm:"not null;index"`
	SellerID  int64  `gorm:"not null;index"`
	Content   string `gorm:"type:text"`
	Price     int    `gorm:"not null"`
	Status    string `gorm:"type:varchar(20);not null;default:open"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Images []PostImageModel `gorm:"foreignKey:PostID"`
	Seller *UserModel       `gorm:"foreignKey:SellerID"`
	Book   *BookModel       `gorm:"foreignKey:BookID"`
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// ToEntity converts the database row to a domain post.
func (m *PostModel) ToEntity() *entity.Post {
	post := &entity.Post{
		ID:        m.ID,
		BookID:    m.BookID,
		SellerID:  m.SellerID,
		Content:   m.Content,
		Price:     m.Price,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
	for _, image := range m.Images {
		post.Images = append(post.Images, image.URL)
	}
	if m.Seller != nil {
		post.Seller = m.Seller.ToEntity()
	}
	if m.Book != nil {
		post.Book = m.Book.ToEntity()
	}

	return post
}

// PostImageModel mirrors the 'post_images' table: photos of the listed copy.
type PostImageModel struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	PostID int64  `gorm:"not null;index"`
	URL    string `gorm:"type:varchar(512);not null"`
}

// TableName explicitly sets the table name for GORM.
func (PostImageModel) TableName() string {
	return "post_images"
}

// CommentModel mirrors the 'comments' table.
type CommentModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	BookID    int64  `gorm:"not null;index"`
	AuthorID  int64  `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time

	Author *UserModel `gorm:"foreignKey:AuthorID"`
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "comments"
}

// ToEntity converts the database row to a domain comment.
func (m *CommentModel) ToEntity() *entity.Comment {
	comment := &entity.Comment{
		ID:        m.ID,
		BookID:    m.BookID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Author != nil {
		comment.Author = m.Author.ToEntity()
	}

	return comment
}

// FavoriteModel mirrors the 'favorites' table: one row per (user, book) follow.
type FavoriteModel struct {
	UserID    int64 `gorm:"primaryKey"`
	BookID    int64 `gorm:"primaryKey"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (FavoriteModel) TableName() string {
	return "favorites"
}
