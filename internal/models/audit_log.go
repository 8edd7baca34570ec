package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog registra quem mexeu em shops, vínculos e serviços.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint  `gorm:"index" json:"barbershop_id"`
	UserID       *uint `gorm:"index" json:"user_id"`

	// shop_created, shop_deleted, user_updated, barber_services_replaced...
	Action   string         `gorm:"size:50;not null;index" json:"action"`
	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uint          `json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// All lista os modelos migrados pelo AutoMigrate.
func All() []any {
	return []any{
		&Barbershop{},
		&User{},
		&Service{},
		&BarberService{},
		&AuditLog{},
	}
}
