// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is one member of the screenable universe, typically an index
// constituent. Code is the quote-provider ticker (e.g. "BRK-B").
type Symbol struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Code      string    `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Sector    string    `gorm:"size:100;not null;default:''" json:"sector"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	SortKey   int       `gorm:"not null;default:0" json:"sort_key"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
