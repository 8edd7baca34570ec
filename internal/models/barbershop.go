package models

import (
	"time"

	"gorm.io/datatypes"
)

type Barbershop struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`

	Address string `gorm:"size:255" json:"address"`
	Sector  string `gorm:"size:100" json:"sector"`
	City    string `gorm:"size:100" json:"city"`

	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	WhatsApp string `gorm:"size:255" json:"whatsapp"`

	// coordenadas em decimal, como o formulário envia
	Latitude  string `gorm:"size:32" json:"latitude"`
	Longitude string `gorm:"size:32" json:"longitude"`

	Categories datatypes.JSONType[map[string]string] `json:"categories"`

	PhotoURL string `gorm:"size:512" json:"photo_url"`

	OwnerID *uint `json:"owner_id"`

	// vínculo único: users.shop_id. barber_ids é calculado na leitura.
	Barbers []User `gorm:"foreignKey:ShopID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
