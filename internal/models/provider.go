package models

import (
	"time"

	"gorm.io/gorm"
)

// Provider represents a service provider (engineer, fabrication shop,
// equipment owner)
// DB: providers
type Provider struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"column:name;size:100;not null" json:"name"`
	Email     string         `gorm:"column:email;size:255;not null;uniqueIndex:providers_email_key" json:"email"`
	Phone     *string        `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Company   *string        `gorm:"column:company;size:255" json:"company,omitempty"`
	Bio       *string        `gorm:"column:bio;type:text" json:"bio,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	// Relations
	Services []Service `gorm:"foreignKey:ProviderID" json:"services,omitempty"`
}

func (Provider) TableName() string {
	return "providers"
}

// ProviderProfile is the public view of a provider. Contact fields are
// stripped before a profile leaves the API.
type ProviderProfile struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Company *string `json:"company,omitempty"`
	Bio     *string `json:"bio,omitempty"`
}

// Sanitized returns the provider profile without email or phone.
func (p *Provider) Sanitized() ProviderProfile {
	return ProviderProfile{
		ID:      p.ID,
		Name:    p.Name,
		Company: p.Company,
		Bio:     p.Bio,
	}
}
