package shop

import (
	"context"

	"github.com/BruksfildServices01/barber-manager/internal/audit"
	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/models"
)

type SaveBarberServices struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSaveBarberServices(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SaveBarberServices {
	return &SaveBarberServices{
		repo:  repo,
		audit: audit,
	}
}

// Execute sobrescreve, por barbeiro, o conjunto de serviços oferecidos.
// Barbeiros fora do mapa não são tocados.
func (uc *SaveBarberServices) Execute(
	ctx context.Context,
	actor Actor,
	shopID uint,
	mapping domain.BarberServices,
) (domain.BarberServices, error) {

	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("shop_not_found")
		}
		return nil, err
	}
	if !actor.canManage(shop) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	replace := make(map[uint][]uint, len(mapping))
	barberIDs := make([]uint, 0, len(mapping))
	var serviceIDs []uint

	for rawBarber, rawServices := range mapping {
		bid, ok := rawBarber.Uint()
		if !ok {
			return nil, httperr.ErrBusiness("invalid_barber_id")
		}
		sids, err := uintIDs(rawServices, "invalid_service_id")
		if err != nil {
			return nil, err
		}
		replace[bid] = sids
		barberIDs = append(barberIDs, bid)
		serviceIDs = append(serviceIDs, sids...)
	}

	barbers, err := uc.repo.ListUsersByIDs(ctx, barberIDs)
	if err != nil {
		return nil, err
	}
	if len(barbers) != len(barberIDs) {
		return nil, httperr.ErrBusiness("barber_not_found")
	}
	for _, b := range barbers {
		if b.ShopID == nil || *b.ShopID != shopID {
			return nil, httperr.ErrBusiness("barber_not_in_shop")
		}
	}

	if err := uc.checkServices(ctx, shopID, serviceIDs); err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceBarberServices(ctx, replace); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       actor.userIDPtr(),
		Action:       "barber_services_replaced",
		Entity:       "barber_service",
		Metadata:     replace,
	})

	saved, err := uc.repo.ListBarberServices(ctx, barberIDs)
	if err != nil {
		return nil, err
	}
	return toBarberServices(saved), nil
}

// checkServices exige serviços existentes, gerais ou exclusivos deste shop.
func (uc *SaveBarberServices) checkServices(
	ctx context.Context,
	shopID uint,
	ids []uint,
) error {

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	services, err := uc.repo.ListServicesByIDs(ctx, unique)
	if err != nil {
		return err
	}
	if len(services) != len(unique) {
		return httperr.ErrBusiness("service_not_found")
	}
	for _, s := range services {
		if !availableIn(s, shopID) {
			return httperr.ErrBusiness("service_not_available")
		}
	}
	return nil
}

func availableIn(s models.Service, shopID uint) bool {
	return s.ShopID == nil || *s.ShopID == shopID
}

// ListBarberServices devolve o mapa dos barbeiros vinculados ao shop.
type ListBarberServices struct {
	repo domain.Repository
}

func NewListBarberServices(repo domain.Repository) *ListBarberServices {
	return &ListBarberServices{repo: repo}
}

func (uc *ListBarberServices) Execute(
	ctx context.Context,
	shopID *uint,
) (domain.BarberServices, error) {

	var barberIDs []uint

	if shopID != nil {
		members, err := uc.repo.BarberIDsByShop(ctx, []uint{*shopID})
		if err != nil {
			return nil, err
		}
		barberIDs = members[*shopID]
	} else {
		users, err := uc.repo.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if domain.ParseRoles(u.Role).Has(domain.RoleBarber) {
				barberIDs = append(barberIDs, u.ID)
			}
		}
	}

	mapping, err := uc.repo.ListBarberServices(ctx, barberIDs)
	if err != nil {
		return nil, err
	}
	return toBarberServices(mapping), nil
}

func toBarberServices(m map[uint][]uint) domain.BarberServices {
	out := make(domain.BarberServices, len(m))
	for bid, sids := range m {
		ids := make([]domain.ID, 0, len(sids))
		for _, sid := range sids {
			ids = append(ids, domain.IDFromUint(sid))
		}
		out[domain.IDFromUint(bid)] = ids
	}
	return out
}
