package barbershop

// Shop como trafega entre a plataforma e o console.
type Shop struct {
	ID         ID                `json:"id"`
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
	PhotoURL   string            `json:"photo_url"`
	OwnerID    *ID               `json:"owner_id"`
	BarberIDs  []ID              `json:"barber_ids"`
}

type User struct {
	ID     ID      `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone"`
	Roles  RoleSet `json:"role"`
	ShopID *ID     `json:"shop_id"`
}

type Service struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
	Description string  `json:"description"`
	ShopID      *ID     `json:"shop_id"`
	BarberID    *ID     `json:"barber_id"`
}

// IsGeneral indica serviço compartilhado (sem shop dono).
func (s Service) IsGeneral() bool {
	return s.ShopID == nil || s.ShopID.IsZero()
}

// BarberServices mapeia barbeiro → serviços oferecidos.
type BarberServices map[ID][]ID

func FindShop(shops []Shop, id ID) (Shop, bool) {
	for _, s := range shops {
		if s.ID == id {
			return s, true
		}
	}
	return Shop{}, false
}

func FindUser(users []User, id ID) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
