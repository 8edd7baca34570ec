package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// nil = serviço geral, compartilhado entre shops
	ShopID   *uint `gorm:"index" json:"shop_id"`
	BarberID *uint `json:"barber_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `gorm:"not null" json:"duration_min"`
	Price       float64 `gorm:"not null" json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BarberService é a tabela de junção barbeiro → serviço.
type BarberService struct {
	BarberID  uint `gorm:"primaryKey"`
	ServiceID uint `gorm:"primaryKey"`

	Barber  *User    `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service *Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	CreatedAt time.Time
}
