package dto

import (
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/models"
)

func idPtr(v *uint) *barbershop.ID {
	if v == nil || *v == 0 {
		return nil
	}
	id := barbershop.IDFromUint(*v)
	return &id
}

// Shop converte o shop persistido. barberIDs vem da FK users.shop_id.
func Shop(b models.Barbershop, barberIDs []uint) barbershop.Shop {
	ids := make([]barbershop.ID, 0, len(barberIDs))
	for _, id := range barberIDs {
		ids = append(ids, barbershop.IDFromUint(id))
	}

	return barbershop.Shop{
		ID:         barbershop.IDFromUint(b.ID),
		Name:       b.Name,
		Address:    b.Address,
		Sector:     b.Sector,
		City:       b.City,
		Phone:      b.Phone,
		Email:      b.Email,
		WhatsApp:   b.WhatsApp,
		Latitude:   b.Latitude,
		Longitude:  b.Longitude,
		Categories: barbershop.CategoryMap(barbershop.CategoryKeys(b.Categories.Data())),
		PhotoURL:   b.PhotoURL,
		OwnerID:    idPtr(b.OwnerID),
		BarberIDs:  ids,
	}
}

func User(u models.User) barbershop.User {
	return barbershop.User{
		ID:     barbershop.IDFromUint(u.ID),
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		Roles:  barbershop.ParseRoles(u.Role),
		ShopID: idPtr(u.ShopID),
	}
}

func Users(list []models.User) []barbershop.User {
	out := make([]barbershop.User, 0, len(list))
	for _, u := range list {
		out = append(out, User(u))
	}
	return out
}

func Service(s models.Service) barbershop.Service {
	return barbershop.Service{
		ID:          barbershop.IDFromUint(s.ID),
		Name:        s.Name,
		Price:       s.Price,
		DurationMin: s.DurationMin,
		Description: s.Description,
		ShopID:      idPtr(s.ShopID),
		BarberID:    idPtr(s.BarberID),
	}
}

func Services(list []models.Service) []barbershop.Service {
	out := make([]barbershop.Service, 0, len(list))
	for _, s := range list {
		out = append(out, Service(s))
	}
	return out
}
