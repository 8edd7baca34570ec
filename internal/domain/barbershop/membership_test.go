package barbershop

import (
	"encoding/json"
	"testing"
)

func idPtr(v string) *ID {
	id := ID(v)
	return &id
}

func TestIsAssignedTo_ShopIDNumericCoercion(t *testing.T) {
	shop := Shop{ID: "7"}

	cases := []struct {
		name   string
		shopID *ID
		want   bool
	}{
		{"same string", idPtr("7"), true},
		{"float form", idPtr("7.0"), true},
		{"padded", idPtr(" 7 "), true},
		{"other shop", idPtr("8"), false},
		{"nil", nil, false},
		{"empty", idPtr(""), false},
		{"garbage", idPtr("abc"), false},
	}

	for _, tc := range cases {
		u := User{ID: "1", Roles: NewRoleSet(RoleBarber), ShopID: tc.shopID}
		if got := IsAssignedTo(u, shop); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestIsAssignedTo_BarberIDsFallback(t *testing.T) {
	shop := Shop{ID: "abc", BarberIDs: []ID{"3", "4"}}

	u := User{ID: "4", ShopID: idPtr("not-a-number")}
	if !IsAssignedTo(u, shop) {
		t.Fatalf("expected barber_ids membership to match")
	}

	u = User{ID: "5"}
	if IsAssignedTo(u, shop) {
		t.Fatalf("expected no membership")
	}
}

func TestIsAssignedTo_MixedJSONIdentifiers(t *testing.T) {
	var shop Shop
	if err := json.Unmarshal([]byte(`{"id": 12, "barber_ids": ["5", 6]}`), &shop); err != nil {
		t.Fatalf("unmarshal shop: %v", err)
	}

	var users []User
	payload := `[
		{"id": "1", "role": "barber", "shop_id": "12"},
		{"id": 5, "role": "Barber", "shop_id": null},
		{"id": "6", "role": "owner barber"},
		{"id": 9, "role": "barber", "shop_id": 13}
	]`
	if err := json.Unmarshal([]byte(payload), &users); err != nil {
		t.Fatalf("unmarshal users: %v", err)
	}

	want := map[ID]bool{"1": true, "5": true, "6": true, "9": false}
	for _, u := range users {
		if got := IsAssignedTo(u, shop); got != want[u.ID] {
			t.Fatalf("user %s: expected %v, got %v", u.ID, want[u.ID], got)
		}
	}
}

func TestBarbersOf_FiltersRoleAndDeduplicates(t *testing.T) {
	shop := Shop{ID: "1", BarberIDs: []ID{"2", "3"}}
	users := []User{
		{ID: "2", Roles: ParseRoles("barber"), ShopID: idPtr("1")},
		{ID: "3", Roles: ParseRoles("client")},
		{ID: "4", Roles: ParseRoles("Owner Barber"), ShopID: idPtr("1")},
		{ID: "2", Roles: ParseRoles("barber"), ShopID: idPtr("1")},
		{ID: "5", Roles: ParseRoles("barber"), ShopID: idPtr("2")},
	}

	got := BarberIDsOf(shop, users)
	if len(got) != 2 || got[0] != "2" || got[1] != "4" {
		t.Fatalf("expected [2 4], got %v", got)
	}
}

func TestUnassignedBarbers(t *testing.T) {
	shops := []Shop{{ID: "1", BarberIDs: []ID{"2"}}}
	users := []User{
		{ID: "2", Roles: NewRoleSet(RoleBarber)},
		{ID: "3", Roles: NewRoleSet(RoleBarber)},
		{ID: "4", Roles: NewRoleSet(RoleOwner)},
	}

	got := UnassignedBarbers(shops, users)
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("expected only user 3, got %+v", got)
	}
}

func TestParseRoles(t *testing.T) {
	cases := map[string][]Role{
		"barber":          {RoleBarber},
		"Owner Barber":    {RoleOwner, RoleBarber},
		"BARBERO":         {RoleBarber},
		"admin, owner":    {RoleOwner, RoleAdmin},
		"cliente":         {},
		"":                {},
		"dueño y barbero": {RoleOwner, RoleBarber},
	}

	for label, want := range cases {
		got := ParseRoles(label).Roles()
		if len(got) != len(want) {
			t.Fatalf("%q: expected %v, got %v", label, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%q: expected %v, got %v", label, want, got)
			}
		}
	}
}

func TestRoleSet_JSON(t *testing.T) {
	s := NewRoleSet(RoleBarber, RoleOwner)
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"owner barber"` {
		t.Fatalf("unexpected label %s", b)
	}

	var fromList RoleSet
	if err := json.Unmarshal([]byte(`["admin","barber"]`), &fromList); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if !fromList.Has(RoleAdmin) || !fromList.Has(RoleBarber) || fromList.Has(RoleOwner) {
		t.Fatalf("unexpected roles %v", fromList.Roles())
	}
}

func TestID_JSON(t *testing.T) {
	b, _ := json.Marshal(struct {
		A ID  `json:"a"`
		B ID  `json:"b"`
		C *ID `json:"c"`
		D ID  `json:"d"`
	}{A: "12", B: "abc", D: ""})

	if string(b) != `{"a":12,"b":"abc","c":null,"d":null}` {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestCategoryMap_NeverEmpty(t *testing.T) {
	m := CategoryMap(nil)
	if len(m) != 1 || m[string(CategoryBarberia)] == "" {
		t.Fatalf("expected fallback category, got %v", m)
	}

	keys := CategoryKeys(map[string]string{"spa": "Spa", "barberia": "x", "other": "y"})
	if len(keys) != 2 || keys[0] != CategoryBarberia || keys[1] != CategorySpa {
		t.Fatalf("unexpected keys %v", keys)
	}
}
