package shop

import (
	"context"

	domain "github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/dto"
)

// ListShops devolve os shops com barber_ids calculado a partir de users.shop_id.
type ListShops struct {
	repo domain.Repository
}

func NewListShops(repo domain.Repository) *ListShops {
	return &ListShops{repo: repo}
}

func (uc *ListShops) Execute(ctx context.Context) ([]domain.Shop, error) {
	shops, err := uc.repo.ListShops(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(shops))
	for i, s := range shops {
		ids[i] = s.ID
	}

	members, err := uc.repo.BarberIDsByShop(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Shop, 0, len(shops))
	for _, s := range shops {
		out = append(out, dto.Shop(s, members[s.ID]))
	}
	return out, nil
}

func (uc *ListShops) One(ctx context.Context, id uint) (*domain.Shop, error) {
	shop, err := uc.repo.GetShop(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := uc.repo.BarberIDsByShop(ctx, []uint{id})
	if err != nil {
		return nil, err
	}

	out := dto.Shop(*shop, members[id])
	return &out, nil
}
