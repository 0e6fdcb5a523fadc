package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"swagplan/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const documentRowID = 1

// DBStore keeps the document as one JSON row in postgres
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a store on an open gorm connection
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Load reads the document row, returning an empty document when none exists yet
func (s *DBStore) Load(ctx context.Context) (*models.Document, error) {
	var row models.DocumentRow
	err := s.db.WithContext(ctx).Where("id = ?", documentRowID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document row: %w", err)
	}

	doc := models.NewDocument()
	if err := json.Unmarshal(row.Body, doc); err != nil {
		return nil, fmt.Errorf("failed to decode document row: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// Save upserts the document row
func (s *DBStore) Save(ctx context.Context, doc *models.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	row := models.DocumentRow{
		ID:        documentRowID,
		Body:      datatypes.JSON(body),
		UpdatedAt: time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write document row: %w", err)
	}
	return nil
}
