package association

import (
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

// Move é um barbeiro que sai de outro shop para entrar neste.
type Move struct {
	UserID   barbershop.ID `json:"user_id"`
	FromShop barbershop.ID `json:"from_shop"`
}

// Plan é a diferença mínima entre a seleção editada e o vínculo atual.
type Plan struct {
	Shop barbershop.Shop `json:"-"`

	BarberIDs []barbershop.ID `json:"barber_ids"`
	Assign    []barbershop.ID `json:"assign"`
	Unassign  []barbershop.ID `json:"unassign"`
	Moves     []Move          `json:"moves"`
}

// Empty indica que nada muda no vínculo dos usuários.
func (p Plan) Empty() bool {
	return len(p.Assign) == 0 && len(p.Unassign) == 0
}

func (p Plan) moveOf(id barbershop.ID) (Move, bool) {
	for _, m := range p.Moves {
		if m.UserID == id {
			return m, true
		}
	}
	return Move{}, false
}

// NewPlan calcula o que sincronizar. desired vira o novo barber_ids, sem
// repetição e na ordem recebida. Usuários fora das duas listas não mudam.
func NewPlan(shop barbershop.Shop, desired []barbershop.ID, users []barbershop.User) Plan {
	p := Plan{
		Shop:      shop,
		BarberIDs: barbershop.UniqueIDs(desired),
		Assign:    []barbershop.ID{},
		Unassign:  []barbershop.ID{},
		Moves:     []Move{},
	}

	for _, id := range p.BarberIDs {
		u, found := barbershop.FindUser(users, id)
		if found && u.ShopID != nil && barbershop.EqualID(*u.ShopID, shop.ID) {
			continue
		}
		p.Assign = append(p.Assign, id)

		if found && u.ShopID != nil && !u.ShopID.IsZero() {
			p.Moves = append(p.Moves, Move{UserID: id, FromShop: *u.ShopID})
		}
	}

	for _, b := range barbershop.BarbersOf(shop, users) {
		if !barbershop.ContainsID(p.BarberIDs, b.ID) {
			p.Unassign = append(p.Unassign, b.ID)
		}
	}

	return p
}
