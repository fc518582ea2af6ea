package entity

import (
	"time"

	"github.com/google/uuid"
)

type NewsArticle struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Slug        string     `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Excerpt     string     `json:"excerpt" gorm:"type:varchar(1024)"`
	Content     string     `json:"content" gorm:"type:text"`
	IsPublished bool       `json:"is_published" gorm:"not null;default:false;index"`
	PublishedAt *time.Time `json:"published_at,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (NewsArticle) TableName() string {
	return "news_articles"
}

type NewsPatch struct {
	Title       *string
	Slug        *string
	Excerpt     *string
	Content     *string
	IsPublished *bool
	PublishedAt *time.Time
}

func (p NewsPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Slug != nil {
		cols["slug"] = *p.Slug
	}
	if p.Excerpt != nil {
		cols["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.IsPublished != nil {
		cols["is_published"] = *p.IsPublished
	}
	if p.PublishedAt != nil {
		cols["published_at"] = *p.PublishedAt
	}
	return cols
}
