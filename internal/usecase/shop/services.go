package shop

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/barber-manager/internal/audit"
	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/dto"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/models"
)

// ======================================================
// CreateService
// ======================================================

type CreateService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateService(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateService {
	return &CreateService{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateService) Execute(
	ctx context.Context,
	actor Actor,
	in domain.ServicePayload,
) (*domain.Service, error) {

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("name_required")
	}
	if in.Price <= 0 {
		return nil, httperr.ErrBusiness("invalid_price")
	}
	if in.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	svc := &models.Service{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		DurationMin: in.DurationMin,
		Price:       in.Price,
	}

	var shopID uint
	if in.ShopID != nil && !in.ShopID.IsZero() {
		id, ok := in.ShopID.Uint()
		if !ok {
			return nil, httperr.ErrBusiness("invalid_shop_id")
		}
		shop, err := uc.repo.GetShop(ctx, id)
		if err != nil {
			if httperr.IsNotFound(err) {
				return nil, httperr.ErrBusiness("shop_not_found")
			}
			return nil, err
		}
		if !actor.canManage(shop) {
			return nil, httperr.ErrBusiness("forbidden")
		}
		svc.ShopID = &id
		shopID = id
	}

	if in.BarberID != nil && !in.BarberID.IsZero() {
		id, ok := in.BarberID.Uint()
		if !ok {
			return nil, httperr.ErrBusiness("invalid_barber_id")
		}
		svc.BarberID = &id
	}

	if err := uc.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       actor.userIDPtr(),
		Action:       "service_created",
		Entity:       "service",
		EntityID:     &svc.ID,
	})

	out := dto.Service(*svc)
	return &out, nil
}

// ======================================================
// DeleteService
// ======================================================

type DeleteService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteService(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteService {
	return &DeleteService{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteService) Execute(
	ctx context.Context,
	actor Actor,
	serviceID uint,
) error {

	found, err := uc.repo.ListServicesByIDs(ctx, []uint{serviceID})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return httperr.ErrBusiness("service_not_found")
	}

	var shopID uint
	if sid := found[0].ShopID; sid != nil {
		shop, err := uc.repo.GetShop(ctx, *sid)
		if err == nil && !actor.canManage(shop) {
			return httperr.ErrBusiness("forbidden")
		}
		shopID = *sid
	} else if !actor.Roles.Has(domain.RoleAdmin) && !actor.Roles.Has(domain.RoleOwner) {
		return httperr.ErrBusiness("forbidden")
	}

	if err := uc.repo.DeleteService(ctx, serviceID); err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrBusiness("service_not_found")
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       actor.userIDPtr(),
		Action:       "service_deleted",
		Entity:       "service",
		EntityID:     &serviceID,
	})

	return nil
}

// ListServices lista todos, ou gerais + exclusivos quando shopID vem preenchido.
type ListServices struct {
	repo domain.Repository
}

func NewListServices(repo domain.Repository) *ListServices {
	return &ListServices{repo: repo}
}

func (uc *ListServices) Execute(ctx context.Context, shopID *uint) ([]domain.Service, error) {
	list, err := uc.repo.ListServices(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return dto.Services(list), nil
}
