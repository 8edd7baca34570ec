package audit

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-manager/internal/models"
	"github.com/BruksfildServices01/barber-manager/internal/timezone"
)

// Logger grava os eventos na tabela audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	entry := models.AuditLog{
		BarbershopID: ev.BarbershopID,
		UserID:       ev.UserID,
		Action:       ev.Action,
		Entity:       ev.Entity,
		EntityID:     ev.EntityID,
		CreatedAt:    timezone.Now(),
	}

	if ev.Metadata != nil {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("audit metadata %s: %w", ev.Action, err)
		}
		entry.Metadata = datatypes.JSON(b)
	}

	if err := l.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("audit insert %s: %w", ev.Action, err)
	}
	return nil
}
