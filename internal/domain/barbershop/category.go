package barbershop

import "strings"

type Category string

const (
	CategoryBarberia   Category = "barberia"
	CategoryPeluqueria Category = "peluqueria"
	CategoryEstetica   Category = "estetica"
	CategorySpa        Category = "spa"
	CategoryUnas       Category = "unas"

	DefaultCategory = CategoryBarberia
)

// Categories lista as categorias na ordem exibida no formulário.
var Categories = []Category{
	CategoryBarberia,
	CategoryPeluqueria,
	CategoryEstetica,
	CategorySpa,
	CategoryUnas,
}

var categoryLabels = map[Category]string{
	CategoryBarberia:   "Barbería",
	CategoryPeluqueria: "Peluquería",
	CategoryEstetica:   "Estética",
	CategorySpa:        "Spa",
	CategoryUnas:       "Uñas",
}

func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	_, ok := categoryLabels[c]
	return c, ok
}

func (c Category) Label() string {
	return categoryLabels[c]
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// CategoryMap monta o mapa chave → label gravado no shop. Nunca volta vazio.
func CategoryMap(keys []Category) map[string]string {
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if k.Valid() {
			out[string(k)] = k.Label()
		}
	}
	if len(out) == 0 {
		out[string(DefaultCategory)] = DefaultCategory.Label()
	}
	return out
}

// CategoryKeys devolve as chaves válidas do mapa na ordem do enum.
func CategoryKeys(m map[string]string) []Category {
	out := make([]Category, 0, len(m))
	for _, c := range Categories {
		if _, ok := m[string(c)]; ok {
			out = append(out, c)
		}
	}
	return out
}
