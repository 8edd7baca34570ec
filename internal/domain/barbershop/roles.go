package barbershop

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleBarber Role = "barber"
	RoleAdmin  Role = "admin"
)

// ordem usada no label serializado
var knownRoles = []Role{RoleOwner, RoleBarber, RoleAdmin}

var roleAliases = map[Role][]string{
	RoleOwner:  {"owner", "dueño", "dueno", "propietario"},
	RoleBarber: {"barber"},
	RoleAdmin:  {"admin"},
}

// RoleSet é o conjunto fechado de papéis de um usuário.
type RoleSet uint8

func roleBit(r Role) RoleSet {
	for i, k := range knownRoles {
		if k == r {
			return 1 << i
		}
	}
	return 0
}

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= roleBit(r)
	}
	return s
}

// ParseRoles lê o label livre que a plataforma guarda ("owner barber",
// "Barbero", ...). A comparação é case-insensitive e por substring.
func ParseRoles(label string) RoleSet {
	l := strings.ToLower(label)
	var s RoleSet
	for _, r := range knownRoles {
		for _, alias := range roleAliases[r] {
			if strings.Contains(l, alias) {
				s |= roleBit(r)
				break
			}
		}
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	b := roleBit(r)
	return b != 0 && s&b == b
}

func (s RoleSet) With(r Role) RoleSet {
	return s | roleBit(r)
}

func (s RoleSet) Without(r Role) RoleSet {
	return s &^ roleBit(r)
}

func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(knownRoles))
	for _, r := range knownRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) Label() string {
	roles := s.Roles()
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Label())
}

// UnmarshalJSON aceita o label em string ou uma lista de tags.
func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err == nil {
		*s = ParseRoles(label)
		return nil
	}

	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		return err
	}
	*s = ParseRoles(strings.Join(tags, " "))
	return nil
}
