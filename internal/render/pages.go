// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"html/template"

	"arvix/internal/models"
)

// HomeData feeds templates/home.html.
type HomeData struct {
	Home         models.HomeSettings
	Slides       []models.Slide
	Categories   []models.Category
	Featured     []models.Product
	Testimonials []models.Testimonial
	Posts        []PostCard
}

// CategoryData feeds templates/category.html.
type CategoryData struct {
	Category   *models.Category
	Breadcrumb []models.Category
	Products   []models.Product
}

// ProductData feeds templates/product.html.
type ProductData struct {
	Product    *models.Product
	Breadcrumb []models.Category
}

// PostCard is a blog post with a plain-text excerpt.
type PostCard struct {
	Post    models.BlogPost
	Excerpt string
}

// BlogListData feeds templates/blog_list.html.
type BlogListData struct {
	Posts []PostCard
}

// BlogPostData feeds templates/blog_post.html.
type BlogPostData struct {
	Post *models.BlogPost
	Body template.HTML
}

// FAQData feeds templates/faq.html.
type FAQData struct {
	FAQs []models.FAQ
}

// ContentData feeds templates/page.html, shared by the settings-driven
// pages. ContactForm adds the message form below the sections.
type ContentData struct {
	Page        models.ContentPage
	ContactForm bool
}
