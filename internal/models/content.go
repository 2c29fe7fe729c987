// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// ContentBlock is one titled paragraph of a news article.
type ContentBlock struct {
	Title     string `json:"title"`
	Paragraph string `json:"paragraph"`
}

// News is a stored news article. Image fields hold file names.
type News struct { //nolint:govet // fieldalignment: readability over optimization
	ID            string                 `db:"id"`
	Title         string                 `db:"title"`
	Poster        string                 `db:"poster"`
	ShortDescribe string                 `db:"short_describe"`
	Content       JSONList[ContentBlock] `db:"content"`
	NewsImages    JSONList[string]       `db:"news_images"`
	CreatedAt     time.Time              `db:"created_at"`
	LastUpdate    *time.Time             `db:"last_update"`
	UpdatedBy     string                 `db:"updated_by"`
}

// NewsView is the API representation of News with image URLs.
type NewsView struct { //nolint:govet // fieldalignment: readability over optimization
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Poster        string         `json:"poster"`
	ShortDescribe string         `json:"shortDescribe"`
	Content       []ContentBlock `json:"content"`
	NewsImages    []string       `json:"newsImages"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastUpdate    *time.Time     `json:"lastUpdate"`
	UpdatedBy     string         `json:"updatedBy"`
}

// Contact is one way to reach a vacancy's employer.
type Contact struct {
	WhatsApp string `json:"whatsapp"`
	Telegram string `json:"telegram"`
	Email    string `json:"email"`
}

// Vacancy is a stored job offer. CompanyLogo holds a file name.
type Vacancy struct { //nolint:govet // fieldalignment: readability over optimization
	ID           string            `db:"id"`
	CompanyName  string            `db:"company_name"`
	CompanyLogo  string            `db:"company_logo"`
	Salary       string            `db:"salary"`
	Requirements string            `db:"requirements"`
	Position     string            `db:"position"`
	Contacts     JSONList[Contact] `db:"contacts"`
	CreatedAt    time.Time         `db:"created_at"`
	LastUpdate   *time.Time        `db:"last_update"`
	UpdatedBy    string            `db:"updated_by"`
}

// VacancyView is the API representation of Vacancy with the logo URL.
type VacancyView struct { //nolint:govet // fieldalignment: readability over optimization
	ID           string     `json:"id"`
	CompanyName  string     `json:"companyName"`
	CompanyLogo  string     `json:"companyLogo"`
	Salary       string     `json:"salary"`
	Requirements string     `json:"requirements"`
	Position     string     `json:"position"`
	Contacts     []Contact  `json:"contacts"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastUpdate   *time.Time `json:"lastUpdate"`
	UpdatedBy    string     `json:"updatedBy"`
}
