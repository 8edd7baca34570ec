package barbershop

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifica shops, usuários e serviços. A plataforma já devolveu ids
// como número e como string, então aceitamos os dois formatos.
type ID string

func IDFromUint(v uint) ID {
	if v == 0 {
		return ""
	}
	return ID(strconv.FormatUint(uint64(v), 10))
}

func (id ID) String() string {
	return string(id)
}

func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Numeric converte o id para número. Vazio ou não numérico retorna ok=false.
func (id ID) Numeric() (float64, bool) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (id ID) Uint() (uint, bool) {
	f, ok := id.Numeric()
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, false
	}
	return uint(f), true
}

// Ptr devolve nil para id vazio.
func (id ID) Ptr() *ID {
	if id.IsZero() {
		return nil
	}
	return &id
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if u, ok := id.Uint(); ok && strconv.FormatUint(uint64(u), 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*id = ""
		return nil
	}

	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(str))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("barbershop: invalid id %s", s)
	}
	*id = ID(n.String())
	return nil
}

func ContainsID(ids []ID, id ID) bool {
	want := strings.TrimSpace(string(id))
	if want == "" {
		return false
	}
	for _, v := range ids {
		if strings.TrimSpace(string(v)) == want {
			return true
		}
	}
	return false
}

// UniqueIDs remove vazios e duplicados mantendo a ordem.
func UniqueIDs(ids []ID) []ID {
	out := make([]ID, 0, len(ids))
	seen := make(map[ID]struct{}, len(ids))
	for _, v := range ids {
		v = ID(strings.TrimSpace(string(v)))
		if v.IsZero() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// EqualID compara numericamente quando os dois lados são números ("7" == "7.0"),
// senão pelo texto sem espaços.
func EqualID(a, b ID) bool {
	if x, ok := a.Numeric(); ok {
		if y, ok := b.Numeric(); ok {
			return x == y
		}
	}
	return !a.IsZero() && strings.TrimSpace(string(a)) == strings.TrimSpace(string(b))
}
