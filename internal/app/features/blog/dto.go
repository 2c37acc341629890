package blog

import (
	"github.com/dalemusser/careerhub/internal/domain/models"
)

type seoDTO struct {
	MetaTitle       string   `json:"metaTitle" validate:"max=70"`
	MetaDescription string   `json:"metaDescription" validate:"max=160"`
	Keywords        []string `json:"keywords"`
}

type createRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Content       string   `json:"content" validate:"required"`
	Excerpt       string   `json:"excerpt" validate:"max=300"`
	Category      string   `json:"category" validate:"max=50"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,httpurl"`
	Status        string   `json:"status" validate:"omitempty,blog_status"`
	SEO           seoDTO   `json:"seo"`
}

func (d createRequest) post() models.BlogPost {
	return models.BlogPost{
		Title:         d.Title,
		Content:       d.Content,
		Excerpt:       d.Excerpt,
		Category:      d.Category,
		Tags:          d.Tags,
		FeaturedImage: d.FeaturedImage,
		Status:        d.Status,
		SEO:           models.SEO(d.SEO),
	}
}

// updateRequest leaves the excerpt derived from the new content unless one
// is supplied.
type updateRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Content       *string  `json:"content" validate:"omitempty,min=1"`
	Excerpt       *string  `json:"excerpt" validate:"omitempty,max=300"`
	Category      *string  `json:"category" validate:"omitempty,max=50"`
	Tags          []string `json:"tags"`
	FeaturedImage *string  `json:"featuredImage" validate:"omitempty,httpurl"`
	Status        *string  `json:"status" validate:"omitempty,blog_status"`
	SEO           *seoDTO  `json:"seo"`
}

func (d updateRequest) apply(p *models.BlogPost) {
	if d.Title != nil {
		p.Title = *d.Title
	}
	if d.Content != nil {
		p.Content = *d.Content
		p.Excerpt = ""
	}
	if d.Excerpt != nil {
		p.Excerpt = *d.Excerpt
	}
	if d.Category != nil {
		p.Category = *d.Category
	}
	if d.Tags != nil {
		p.Tags = d.Tags
	}
	if d.FeaturedImage != nil {
		p.FeaturedImage = *d.FeaturedImage
	}
	if d.Status != nil {
		p.Status = *d.Status
	}
	if d.SEO != nil {
		p.SEO = models.SEO(*d.SEO)
	}
}

// commentRequest is shared by comments and replies. Name is required from
// anonymous readers and taken from the session otherwise.
type commentRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Content string `json:"content" validate:"required,max=2000"`
}

type approveRequest struct {
	Approved *bool `json:"approved"`
}

// postView is a post with its author populated.
type postView struct {
	models.BlogPost
	Author *models.UserRef `json:"author"`
}
