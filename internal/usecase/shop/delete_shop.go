package shop

import (
	"context"

	"github.com/BruksfildServices01/barber-manager/internal/audit"
	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
)

type DeleteShop struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteShop(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteShop {
	return &DeleteShop{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteShop) Execute(
	ctx context.Context,
	actor Actor,
	shopID uint,
) error {

	shop, err := uc.repo.GetShop(ctx, shopID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrBusiness("shop_not_found")
		}
		return err
	}
	if !actor.canManage(shop) {
		return httperr.ErrBusiness("forbidden")
	}

	if err := uc.repo.DeleteShop(ctx, shopID); err != nil {
		if httperr.IsNotFound(err) {
			return httperr.ErrBusiness("shop_not_found")
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       actor.userIDPtr(),
		Action:       "shop_deleted",
		Entity:       "barbershop",
		EntityID:     &shopID,
		Metadata: map[string]any{
			"name": shop.Name,
		},
	})

	return nil
}
