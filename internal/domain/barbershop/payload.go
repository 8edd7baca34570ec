package barbershop

// ShopPayload é o corpo enviado em create/update de shop.
type ShopPayload struct {
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Sector     string            `json:"sector"`
	City       string            `json:"city"`
	Phone      string            `json:"phone"`
	Email      string            `json:"email"`
	WhatsApp   string            `json:"whatsapp"`
	Latitude   string            `json:"latitude"`
	Longitude  string            `json:"longitude"`
	Categories map[string]string `json:"categories"`
	PhotoURL   string            `json:"photo_url,omitempty"`

	// nil = não mexe nos barbeiros
	BarberIDs *[]ID `json:"barber_ids,omitempty"`

	// provisionamento do dono, só no primeiro shop
	OwnerName     string `json:"owner_name,omitempty"`
	OwnerEmail    string `json:"owner_email,omitempty"`
	OwnerPassword string `json:"owner_password,omitempty"`
}

func (p ShopPayload) ProvisionsOwner() bool {
	return p.OwnerEmail != ""
}

// UserPatch altera vínculo e/ou papéis de um usuário.
type UserPatch struct {
	// ClearShop zera shop_id; ShopID aponta para outro shop.
	ShopID    *ID      `json:"shop_id,omitempty"`
	ClearShop bool     `json:"clear_shop,omitempty"`
	Roles     *RoleSet `json:"role,omitempty"`
}

type ServicePayload struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
	Description string  `json:"description"`
	ShopID      *ID     `json:"shop_id"`
	BarberID    *ID     `json:"barber_id"`
}

// UploadedImage é a resposta do upload de imagem.
type UploadedImage struct {
	URL string `json:"url"`
}

// PayloadFromShop monta o corpo de update com todos os campos do shop.
func PayloadFromShop(s Shop) ShopPayload {
	ids := append([]ID{}, s.BarberIDs...)
	return ShopPayload{
		Name:       s.Name,
		Address:    s.Address,
		Sector:     s.Sector,
		City:       s.City,
		Phone:      s.Phone,
		Email:      s.Email,
		WhatsApp:   s.WhatsApp,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		Categories: s.Categories,
		PhotoURL:   s.PhotoURL,
		BarberIDs:  &ids,
	}
}
