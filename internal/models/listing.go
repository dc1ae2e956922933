package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/makerlink/server/pkg/geo"
)

// Availability tiers for a service listing
const (
	AvailabilityImmediate    = "immediate"
	AvailabilityWithinWeek   = "within_week"
	AvailabilityWithinMonth  = "within_month"
	AvailabilityNotSpecified = "not_specified"
)

// Service types
const (
	ServiceTypeEngineer    = "engineer"
	ServiceTypeFabrication = "fabrication"
	ServiceTypeEquipment   = "equipment"
)

// Service represents a provider's service listing (the match candidate)
// DB: services
type Service struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	ProviderID   uint     `gorm:"column:provider_id;not null;index:idx_svc_provider" json:"provider_id"`
	Type         string   `gorm:"column:type;size:50;not null;index:idx_svc_type" json:"type"`
	Title        string   `gorm:"column:title;size:255;not null" json:"title"`
	Description  string   `gorm:"column:description;type:text;not null" json:"description"`
	Tags         string   `gorm:"column:tags;type:text;not null;default:''" json:"tags"` // 쉼표 구분
	Price        *float64 `gorm:"column:price;type:double precision" json:"price,omitempty"`
	IsRemote     bool     `gorm:"column:is_remote;not null;default:false" json:"is_remote"`
	Rating       *float64 `gorm:"column:rating;type:double precision" json:"rating,omitempty"`
	RatingCount  int      `gorm:"column:rating_count;not null;default:0" json:"rating_count"`
	Availability *string  `gorm:"column:availability;size:20" json:"availability,omitempty"`
	Address      *string  `gorm:"column:address;type:text" json:"address,omitempty"`
	Lat          *float64 `gorm:"column:lat;type:double precision" json:"lat,omitempty"`
	Lng          *float64 `gorm:"column:lng;type:double precision" json:"lng,omitempty"`
	Status       string   `gorm:"column:status;size:20;not null;default:'active';index:idx_svc_status" json:"status"`

	CreatedAt time.Time      `gorm:"column:created_at;not null;index:idx_svc_created,sort:desc" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_svc_deleted" json:"-"`

	// Relations
	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
}

func (Service) TableName() string {
	return "services"
}

// Coordinates implements geo.Locatable. Listings without both
// coordinates report no location.
func (s *Service) Coordinates() (geo.Point, bool) {
	if s.Lat == nil || s.Lng == nil {
		return geo.Point{}, false
	}
	p := geo.Point{Lat: *s.Lat, Lng: *s.Lng}
	if s.Address != nil {
		p.Address = *s.Address
	}
	return p, true
}

// TagList splits the comma-separated tags column, preserving order.
func (s *Service) TagList() []string {
	return splitTags(s.Tags)
}

// SearchableText concatenates the fields a text query runs against.
func (s *Service) SearchableText() string {
	return strings.Join([]string{s.Title, s.Description, s.Tags, s.Type}, " ")
}

// Resource represents an equipment or material listing
// DB: resources
type Resource struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	ProviderID  uint     `gorm:"column:provider_id;not null;index:idx_res_provider" json:"provider_id"`
	Name        string   `gorm:"column:name;size:255;not null" json:"name"`
	Description string   `gorm:"column:description;type:text;not null" json:"description"`
	Category    string   `gorm:"column:category;size:100;not null;index:idx_res_category" json:"category"`
	Tags        string   `gorm:"column:tags;type:text;not null;default:''" json:"tags"`
	Price       *float64 `gorm:"column:price;type:double precision" json:"price,omitempty"`
	Address     *string  `gorm:"column:address;type:text" json:"address,omitempty"`
	Lat         *float64 `gorm:"column:lat;type:double precision" json:"lat,omitempty"`
	Lng         *float64 `gorm:"column:lng;type:double precision" json:"lng,omitempty"`
	Status      string   `gorm:"column:status;size:20;not null;default:'active';index:idx_res_status" json:"status"`

	CreatedAt time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index:idx_res_deleted" json:"-"`
}

func (Resource) TableName() string {
	return "resources"
}

// Coordinates implements geo.Locatable.
func (r *Resource) Coordinates() (geo.Point, bool) {
	if r.Lat == nil || r.Lng == nil {
		return geo.Point{}, false
	}
	p := geo.Point{Lat: *r.Lat, Lng: *r.Lng}
	if r.Address != nil {
		p.Address = *r.Address
	}
	return p, true
}

// SearchableText concatenates the fields a text query runs against.
func (r *Resource) SearchableText() string {
	return strings.Join([]string{r.Name, r.Description, r.Tags, r.Category}, " ")
}

func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
