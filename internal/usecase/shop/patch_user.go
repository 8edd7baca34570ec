package shop

import (
	"context"

	"github.com/BruksfildServices01/barber-manager/internal/audit"
	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/dto"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
)

type PatchUser struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewPatchUser(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *PatchUser {
	return &PatchUser{
		repo:  repo,
		audit: audit,
	}
}

func (uc *PatchUser) Execute(
	ctx context.Context,
	actor Actor,
	userID uint,
	patch domain.UserPatch,
) (*domain.User, error) {

	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	isAdmin := actor.Roles.Has(domain.RoleAdmin)

	// só admin altera papéis de terceiros ou concede admin
	if patch.Roles != nil && !isAdmin {
		if userID != actor.UserID || patch.Roles.Has(domain.RoleAdmin) {
			return nil, httperr.ErrBusiness("forbidden")
		}
	}

	var shopID uint

	switch {
	case patch.ClearShop:
		if err := uc.canDetach(ctx, actor, userID, user.ShopID); err != nil {
			return nil, err
		}
		user.ShopID = nil
	case patch.ShopID != nil:
		id, ok := patch.ShopID.Uint()
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
		if userID != actor.UserID && !actor.canManage(shop) {
			return nil, httperr.ErrBusiness("forbidden")
		}
		user.ShopID = &id
		shopID = id
	}

	if patch.Roles != nil {
		label := patch.Roles.Label()
		if label == "" {
			return nil, httperr.ErrBusiness("invalid_role")
		}
		user.Role = label
	}

	if err := uc.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shopID,
		UserID:       actor.userIDPtr(),
		Action:       "user_updated",
		Entity:       "user",
		EntityID:     &user.ID,
		Metadata: map[string]any{
			"shop_id": user.ShopID,
			"role":    user.Role,
		},
	})

	out := dto.User(*user)
	return &out, nil
}

// canDetach: o próprio usuário sai do shop, ou quem gerencia o shop atual o solta.
func (uc *PatchUser) canDetach(ctx context.Context, actor Actor, userID uint, current *uint) error {
	if userID == actor.UserID || current == nil {
		return nil
	}
	shop, err := uc.repo.GetShop(ctx, *current)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !actor.canManage(shop) {
		return httperr.ErrBusiness("forbidden")
	}
	return nil
}
