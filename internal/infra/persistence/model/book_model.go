package model

import (
	"time"

	"bookmarket/internal/domain/entity"
)

// BookModel mirrors the 'books' table. The catalog is reference data
// maintained out of band; the API only reads these rows.
type BookModel struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"type:varchar(255);not null;index"`
	Author      string `gorm:"type:varchar(255)"`
	ISBN        string `gorm:"type:varchar(20);uniqueIndex"`
	Cover       string `gorm:"type:varchar(512)"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time

	Tags []TagModel `gorm:"many2many:book_tags;joinForeignKey:BookID;joinReferences:TagID"`

	// Aggregates selected alongside the row, never persisted.
	PostCount    int64 `gorm:"->;-:migration"`
	CommentCount int64 `gorm:"->;-:migration"`
}

// TableName explicitly sets the table name for GORM.
func (BookModel) TableName() string {
	return "books"
}

// ToEntity converts the database row to a domain book.
func (m *BookModel) ToEntity() *entity.Book {
	book := &entity.Book{
		ID:           m.ID,
		Name:         m.Name,
		Author:       m.Author,
		ISBN:         m.ISBN,
		Cover:        m.Cover,
		Description:  m.Description,
		PostCount:    m.PostCount,
		CommentCount: m.CommentCount,
		CreatedAt:    m.CreatedAt,
	}
	for _, tag := range m.Tags {
		book.Tags = append(book.Tags, tag.Name)
	}

	return book
}

// TagModel mirrors the 'tags' table.
type TagModel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);unique;not null"`
}

// TableName explicitly sets the table name for GORM.
func (TagModel) TableName() string {
	return "tags"
}

// ToEntity converts the database row to a domain tag.
func (m *TagModel) ToEntity() *entity.Tag {
	return &entity.Tag{
		ID:   m.ID,
		Name: m.Name,
	}
}
