package barbershop

func IsBarber(u User) bool {
	return u.Roles.Has(RoleBarber)
}

// IsAssignedTo aplica a regra de vínculo: shop_id do usuário igual ao id do
// shop (comparação numérica) OU o id do usuário presente em barber_ids.
// shop_id vazio ou não numérico apenas falha o primeiro ramo.
func IsAssignedTo(u User, s Shop) bool {
	if u.ShopID != nil {
		if a, ok := u.ShopID.Numeric(); ok {
			if b, ok := s.ID.Numeric(); ok && a == b {
				return true
			}
		}
	}
	return ContainsID(s.BarberIDs, u.ID)
}

// BarbersOf devolve os barbeiros do shop, sem repetição, na ordem de users.
func BarbersOf(s Shop, users []User) []User {
	out := make([]User, 0)
	seen := make(map[ID]struct{})
	for _, u := range users {
		if !IsBarber(u) || !IsAssignedTo(u, s) {
			continue
		}
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}

func BarberIDsOf(s Shop, users []User) []ID {
	barbers := BarbersOf(s, users)
	ids := make([]ID, len(barbers))
	for i, b := range barbers {
		ids[i] = b.ID
	}
	return ids
}

// UnassignedBarbers devolve barbeiros que não pertencem a nenhum shop.
func UnassignedBarbers(shops []Shop, users []User) []User {
	out := make([]User, 0)
	for _, u := range users {
		if !IsBarber(u) {
			continue
		}
		assigned := false
		for _, s := range shops {
			if IsAssignedTo(u, s) {
				assigned = true
				break
			}
		}
		if !assigned {
			out = append(out, u)
		}
	}
	return out
}

func ShopsOwnedBy(shops []Shop, ownerID ID) []Shop {
	out := make([]Shop, 0)
	for _, s := range shops {
		if s.OwnerID != nil && *s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out
}

// CurrentShopOf devolve o shop ao qual o usuário pertence hoje, se houver.
func CurrentShopOf(u User, shops []Shop) (Shop, bool) {
	for _, s := range shops {
		if IsAssignedTo(u, s) {
			return s, true
		}
	}
	return Shop{}, false
}

// CanManage: admin mexe em tudo; dono só no próprio shop; shop sem dono é de quem chegar.
func CanManage(actor User, s Shop) bool {
	if actor.Roles.Has(RoleAdmin) {
		return true
	}
	return s.OwnerID == nil || s.OwnerID.IsZero() || EqualID(*s.OwnerID, actor.ID)
}
