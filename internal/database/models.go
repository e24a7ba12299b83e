// Package database хранит историю проходов восприятия в PostgreSQL через GORM.
package database

import "time"

// Snapshot - один проход восприятия: что было видно и какие элементы получили индексы.
// Kind: view, visible, interactive.
type Snapshot struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Kind         string            `gorm:"type:varchar(16);not null;index" json:"kind"`
	URL          string            `gorm:"type:text;not null" json:"url"`
	Title        string            `gorm:"type:text" json:"title"`
	Content      string            `gorm:"type:text" json:"content,omitempty"`
	ElementCount int               `gorm:"not null;default:0" json:"element_count"`
	Elements     []SnapshotElement `gorm:"constraint:OnDelete:CASCADE" json:"elements,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// SnapshotElement - запись интерактивного элемента из прохода.
type SnapshotElement struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	SnapshotID uint   `gorm:"index;not null" json:"-"`
	Position   int    `gorm:"not null" json:"index"`
	Tag        string `gorm:"type:text;not null" json:"tag"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Selector   string `gorm:"type:text;not null" json:"selector"`
}
