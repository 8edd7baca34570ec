package state

import (
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

// Action altera os dados do store. apply roda sob o lock de escrita.
type Action interface {
	apply(d *data)
}

type ShopsLoaded struct {
	Shops          []barbershop.Shop
	Users          []barbershop.User
	Services       []barbershop.Service
	BarberServices barbershop.BarberServices
}

func (a ShopsLoaded) apply(d *data) {
	d.shops = cloneShops(a.Shops)
	d.users = cloneUsers(a.Users)
	d.services = append([]barbershop.Service(nil), a.Services...)
	d.barberServices = cloneBarberServices(a.BarberServices)
}

type ShopAdded struct {
	Shop barbershop.Shop
}

func (a ShopAdded) apply(d *data) {
	for i, s := range d.shops {
		if s.ID == a.Shop.ID {
			d.shops[i] = cloneShop(a.Shop)
			return
		}
	}
	d.shops = append(d.shops, cloneShop(a.Shop))
}

type ShopEdited struct {
	Shop barbershop.Shop
}

func (a ShopEdited) apply(d *data) {
	for i, s := range d.shops {
		if s.ID == a.Shop.ID {
			d.shops[i] = cloneShop(a.Shop)
			return
		}
	}
}

// ShopDeleted remove o shop, solta os membros e descarta os serviços exclusivos.
type ShopDeleted struct {
	ShopID barbershop.ID
}

func (a ShopDeleted) apply(d *data) {
	shops := d.shops[:0]
	for _, s := range d.shops {
		if s.ID != a.ShopID {
			shops = append(shops, s)
		}
	}
	d.shops = shops

	for i, u := range d.users {
		if u.ShopID != nil && barbershop.EqualID(*u.ShopID, a.ShopID) {
			d.users[i].ShopID = nil
		}
	}

	services := d.services[:0]
	for _, s := range d.services {
		if s.ShopID != nil && barbershop.EqualID(*s.ShopID, a.ShopID) {
			continue
		}
		services = append(services, s)
	}
	d.services = services
}

// UserMembershipChanged troca o shop e/ou os papéis de um usuário.
type UserMembershipChanged struct {
	UserID    barbershop.ID
	ShopID    *barbershop.ID
	ClearShop bool
	Roles     *barbershop.RoleSet
}

func (a UserMembershipChanged) apply(d *data) {
	for i, u := range d.users {
		if u.ID != a.UserID {
			continue
		}
		switch {
		case a.ClearShop:
			d.users[i].ShopID = nil
		case a.ShopID != nil:
			id := *a.ShopID
			d.users[i].ShopID = &id
		}
		if a.Roles != nil {
			d.users[i].Roles = *a.Roles
		}
		return
	}
}

type BarberServicesSet struct {
	BarberID   barbershop.ID
	ServiceIDs []barbershop.ID
}

func (a BarberServicesSet) apply(d *data) {
	if d.barberServices == nil {
		d.barberServices = barbershop.BarberServices{}
	}
	d.barberServices[a.BarberID] = append([]barbershop.ID{}, a.ServiceIDs...)
}

type ShopPhotoRegistered struct {
	ShopID barbershop.ID
	URL    string
}

func (a ShopPhotoRegistered) apply(d *data) {
	for i, s := range d.shops {
		if s.ID == a.ShopID {
			d.shops[i].PhotoURL = a.URL
			return
		}
	}
}

type ServiceCreated struct {
	Service barbershop.Service
}

func (a ServiceCreated) apply(d *data) {
	d.services = append(d.services, a.Service)
}

// ServiceDeleted remove o serviço e tira o id dos conjuntos dos barbeiros.
type ServiceDeleted struct {
	ServiceID barbershop.ID
}

func (a ServiceDeleted) apply(d *data) {
	services := d.services[:0]
	for _, s := range d.services {
		if s.ID != a.ServiceID {
			services = append(services, s)
		}
	}
	d.services = services

	for bid, sids := range d.barberServices {
		kept := sids[:0]
		for _, sid := range sids {
			if !barbershop.EqualID(sid, a.ServiceID) {
				kept = append(kept, sid)
			}
		}
		d.barberServices[bid] = kept
	}
}

// Notify empilha uma notificação para o usuário To.
type Notify struct {
	To       barbershop.ID
	Message  string
	Severity Severity
}

func (a Notify) apply(d *data) {
	d.notify(a.To, a.Message, a.Severity)
}

// --------------------------------------------------
// cópias
// --------------------------------------------------

func cloneShop(s barbershop.Shop) barbershop.Shop {
	if s.Categories != nil {
		cats := make(map[string]string, len(s.Categories))
		for k, v := range s.Categories {
			cats[k] = v
		}
		s.Categories = cats
	}
	s.BarberIDs = append([]barbershop.ID(nil), s.BarberIDs...)
	if s.OwnerID != nil {
		id := *s.OwnerID
		s.OwnerID = &id
	}
	return s
}

func cloneShops(list []barbershop.Shop) []barbershop.Shop {
	out := make([]barbershop.Shop, len(list))
	for i, s := range list {
		out[i] = cloneShop(s)
	}
	return out
}

func cloneUsers(list []barbershop.User) []barbershop.User {
	out := make([]barbershop.User, len(list))
	for i, u := range list {
		if u.ShopID != nil {
			id := *u.ShopID
			u.ShopID = &id
		}
		out[i] = u
	}
	return out
}

func cloneBarberServices(m barbershop.BarberServices) barbershop.BarberServices {
	out := make(barbershop.BarberServices, len(m))
	for k, v := range m {
		out[k] = append([]barbershop.ID{}, v...)
	}
	return out
}
