package barbershop

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// NormalizeShopResponse achata a resposta de create/update. Cada campo vem do
// nível de cima, senão de "schedule", senão do valor enviado, senão vazio.
// fallbackID cobre respostas sem id (update que devolve só os campos).
func NormalizeShopResponse(raw json.RawMessage, sent ShopPayload, fallbackID ID) Shop {
	top := objectOf(raw)
	nested := objectOf(top["schedule"])

	pick := func(key, submitted string) string {
		if v, ok := stringField(top[key]); ok {
			return v
		}
		if v, ok := stringField(nested[key]); ok {
			return v
		}
		return submitted
	}

	shop := Shop{
		ID:        ID(pick("id", string(fallbackID))),
		Name:      pick("name", sent.Name),
		Address:   pick("address", sent.Address),
		Sector:    pick("sector", sent.Sector),
		City:      pick("city", sent.City),
		Phone:     pick("phone", sent.Phone),
		Email:     pick("email", sent.Email),
		WhatsApp:  pick("whatsapp", sent.WhatsApp),
		Latitude:  pick("latitude", sent.Latitude),
		Longitude: pick("longitude", sent.Longitude),
		PhotoURL:  pick("photo_url", sent.PhotoURL),
	}

	if owner, ok := stringField(top["owner_id"]); ok {
		shop.OwnerID = ID(owner).Ptr()
	} else if owner, ok := stringField(nested["owner_id"]); ok {
		shop.OwnerID = ID(owner).Ptr()
	}

	cats := sent.Categories
	if m, ok := categoriesField(top["categories"]); ok {
		cats = m
	} else if m, ok := categoriesField(nested["categories"]); ok {
		cats = m
	}
	shop.Categories = CategoryMap(CategoryKeys(cats))

	switch {
	case idsField(top["barber_ids"], &shop.BarberIDs):
	case idsField(nested["barber_ids"], &shop.BarberIDs):
	case sent.BarberIDs != nil:
		shop.BarberIDs = append([]ID{}, (*sent.BarberIDs)...)
	default:
		shop.BarberIDs = []ID{}
	}

	return shop
}

func objectOf(raw json.RawMessage) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &m) != nil {
		return map[string]json.RawMessage{}
	}
	return m
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// stringField aceita string não vazia ou número.
func stringField(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if f, err := n.Float64(); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), true
		}
	}
	return "", false
}

func categoriesField(raw json.RawMessage) (map[string]string, bool) {
	if isNull(raw) {
		return nil, false
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err == nil && len(m) > 0 {
		return m, true
	}
	// lista de chaves também vale
	var keys []string
	if err := json.Unmarshal(raw, &keys); err == nil && len(keys) > 0 {
		m = make(map[string]string, len(keys))
		for _, k := range keys {
			m[k] = k
		}
		return m, true
	}
	return nil, false
}

func idsField(raw json.RawMessage, dst *[]ID) bool {
	if isNull(raw) {
		return false
	}
	var ids []ID
	if err := json.Unmarshal(raw, &ids); err != nil {
		return false
	}
	*dst = UniqueIDs(ids)
	return true
}
