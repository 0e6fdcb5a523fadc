package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is the whole persisted state: every activity and user
type Document struct {
	Activities []Activity `json:"activities"`
	Users      []User     `json:"users"`
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{
		Activities: []Activity{},
		Users:      []User{},
	}
}

// Normalize replaces nil slices so the document always serializes as arrays
func (d *Document) Normalize() {
	if d.Activities == nil {
		d.Activities = []Activity{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
	for i := range d.Activities {
		if d.Activities[i].Participants == nil {
			d.Activities[i].Participants = []string{}
		}
	}
}

// FindActivity returns a pointer into the document, or nil
func (d *Document) FindActivity(id string) *Activity {
	for i := range d.Activities {
		if d.Activities[i].ID == id {
			return &d.Activities[i]
		}
	}
	return nil
}

// FindUser returns a pointer into the document, or nil
func (d *Document) FindUser(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindUserByGoogleID returns a pointer into the document, or nil
func (d *Document) FindUserByGoogleID(googleID string) *User {
	if googleID == "" {
		return nil
	}
	for i := range d.Users {
		if d.Users[i].GoogleID == googleID {
			return &d.Users[i]
		}
	}
	return nil
}

// DocumentRow stores the whole document as a single JSON row
type DocumentRow struct {
	ID        uint           `gorm:"primaryKey;autoIncrement:false"`
	Body      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName specifies the table name for the DocumentRow model
func (DocumentRow) TableName() string {
	return "swagplan_document"
}
