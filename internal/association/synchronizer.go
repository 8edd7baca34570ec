package association

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

var ErrMoveNeedsConfirmation = errors.New("barber belongs to another shop; confirmation required")

type Options struct {
	// UpdateUsers também envia PATCH de shop_id por usuário, para plataformas
	// que guardam as duas representações do vínculo.
	UpdateUsers bool
}

// Synchronizer aplica um Plan na plataforma e só depois no store.
type Synchronizer struct {
	store *state.Store
	opts  Options
}

func NewSynchronizer(store *state.Store, opts Options) *Synchronizer {
	return &Synchronizer{store: store, opts: opts}
}

// Sync exige confirmMove quando o próprio actor sai de outro shop.
func (s *Synchronizer) Sync(
	ctx context.Context,
	api remote.API,
	actor barbershop.ID,
	plan Plan,
	confirmMove bool,
) (barbershop.Shop, error) {

	if m, moving := plan.moveOf(actor); moving && !confirmMove {
		return barbershop.Shop{}, fmt.Errorf("%w: from shop %s", ErrMoveNeedsConfirmation, m.FromShop)
	}
	return s.apply(ctx, api, actor, plan, nil)
}

// SelfAssign é a atribuição rápida: coloca o actor no shop com o papel barber.
func (s *Synchronizer) SelfAssign(
	ctx context.Context,
	api remote.API,
	actor barbershop.User,
	shop barbershop.Shop,
	users []barbershop.User,
	confirmMove bool,
) (barbershop.Shop, error) {

	desired := append(barbershop.BarberIDsOf(shop, users), actor.ID)

	// o actor ainda sem papel barber não aparece em BarbersOf; trata como já barbeiro
	withRole := actor
	withRole.Roles = actor.Roles.With(barbershop.RoleBarber)
	plan := NewPlan(shop, desired, replaceUser(users, withRole))

	if m, moving := plan.moveOf(actor.ID); moving && !confirmMove {
		return barbershop.Shop{}, fmt.Errorf("%w: from shop %s", ErrMoveNeedsConfirmation, m.FromShop)
	}

	var extra []state.Action
	if !actor.Roles.Has(barbershop.RoleBarber) {
		roles := withRole.Roles
		if _, err := api.UpdateUser(ctx, actor.ID, barbershop.UserPatch{Roles: &roles}); err != nil {
			return barbershop.Shop{}, s.fail(actor.ID, err)
		}
		extra = append(extra, state.UserMembershipChanged{UserID: actor.ID, Roles: &roles})
	}

	return s.apply(ctx, api, actor.ID, plan, extra)
}

func (s *Synchronizer) apply(
	ctx context.Context,
	api remote.API,
	actor barbershop.ID,
	plan Plan,
	extra []state.Action,
) (barbershop.Shop, error) {

	shop := plan.Shop
	shop.BarberIDs = plan.BarberIDs

	payload := barbershop.PayloadFromShop(shop)
	raw, err := api.UpdateShop(ctx, shop.ID, payload)
	if err != nil {
		return barbershop.Shop{}, s.fail(actor, err)
	}
	saved := barbershop.NormalizeShopResponse(raw, payload, shop.ID)
	saved.OwnerID = firstOwner(saved.OwnerID, shop.OwnerID)
	shop = saved

	if s.opts.UpdateUsers {
		shopID := shop.ID
		for _, id := range plan.Assign {
			if _, err := api.UpdateUser(ctx, id, barbershop.UserPatch{ShopID: &shopID}); err != nil {
				return barbershop.Shop{}, s.fail(actor, err)
			}
		}
		for _, id := range plan.Unassign {
			if _, err := api.UpdateUser(ctx, id, barbershop.UserPatch{ClearShop: true}); err != nil {
				return barbershop.Shop{}, s.fail(actor, err)
			}
		}
	}

	actions := append([]state.Action{}, extra...)
	actions = append(actions, state.ShopEdited{Shop: shop})
	actions = append(actions, s.leaveOldShops(plan)...)
	for _, id := range plan.Assign {
		shopID := shop.ID
		actions = append(actions, state.UserMembershipChanged{UserID: id, ShopID: &shopID})
	}
	for _, id := range plan.Unassign {
		actions = append(actions, state.UserMembershipChanged{UserID: id, ClearShop: true})
	}
	actions = append(actions, state.Notify{
		To:       actor,
		Message:  fmt.Sprintf("Barbeiros de %s atualizados.", shop.Name),
		Severity: state.SeveritySuccess,
	})

	s.store.Dispatch(actions...)
	return shop, nil
}

// leaveOldShops tira os barbeiros movidos do barber_ids dos shops de origem.
func (s *Synchronizer) leaveOldShops(plan Plan) []state.Action {
	if len(plan.Moves) == 0 {
		return nil
	}
	snap := s.store.Snapshot()

	var out []state.Action
	for _, m := range plan.Moves {
		for _, old := range snap.Shops {
			if !barbershop.EqualID(old.ID, m.FromShop) || !barbershop.ContainsID(old.BarberIDs, m.UserID) {
				continue
			}
			kept := make([]barbershop.ID, 0, len(old.BarberIDs))
			for _, id := range old.BarberIDs {
				if !barbershop.EqualID(id, m.UserID) {
					kept = append(kept, id)
				}
			}
			old.BarberIDs = kept
			out = append(out, state.ShopEdited{Shop: old})
		}
	}
	return out
}

func (s *Synchronizer) fail(actor barbershop.ID, err error) error {
	slog.Error("barber sync failed", "actor_id", actor.String(), "error", err)
	s.store.Notify(actor, state.SeverityError, "Não foi possível atualizar os barbeiros. Tente novamente.")
	return fmt.Errorf("sync barbers: %w", err)
}

func firstOwner(a, b *barbershop.ID) *barbershop.ID {
	if a != nil {
		return a
	}
	return b
}

func replaceUser(users []barbershop.User, u barbershop.User) []barbershop.User {
	out := make([]barbershop.User, len(users))
	copy(out, users)
	for i := range out {
		if out[i].ID == u.ID {
			out[i] = u
			return out
		}
	}
	return append(out, u)
}
