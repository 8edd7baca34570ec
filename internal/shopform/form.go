// Package shopform conduz o formulário de criação/edição de shop: rascunho,
// captura de localização, imagem e o envio em etapas.
package shopform

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/validators"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

const minOwnerPassword = 6

type Fields struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Sector    string `json:"sector"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	WhatsApp  string `json:"whatsapp"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

type OwnerAccount struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password,omitempty"`
	PasswordConfirm string `json:"password_confirm,omitempty"`
}

// Form é o rascunho guardado entre as requisições do console.
type Form struct {
	ID         string                `json:"id"`
	Mode       Mode                  `json:"mode"`
	ActorID    barbershop.ID         `json:"actor_id"`
	ShopID     barbershop.ID         `json:"shop_id,omitempty"`
	Fields     Fields                `json:"fields"`
	Categories []barbershop.Category `json:"categories"`

	Owner                OwnerAccount `json:"owner"`
	RequiresOwnerAccount bool         `json:"requires_owner_account"`

	// prévia ainda não enviada; PhotoURL é a foto já salva do shop
	PreviewRef  string `json:"preview_ref,omitempty"`
	PreviewName string `json:"preview_name,omitempty"`
	PreviewMIME string `json:"preview_mime,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`

	Submitting bool      `json:"submitting"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public devolve o formulário sem as senhas.
func (f Form) Public() Form {
	f.Owner.Password = ""
	f.Owner.PasswordConfirm = ""
	f.Categories = append([]barbershop.Category{}, f.Categories...)
	return f
}

// Patch altera só os campos presentes.
type Patch struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	Sector    *string `json:"sector"`
	City      *string `json:"city"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	WhatsApp  *string `json:"whatsapp"`
	Latitude  *string `json:"latitude"`
	Longitude *string `json:"longitude"`

	OwnerName            *string `json:"owner_name"`
	OwnerEmail           *string `json:"owner_email"`
	OwnerPassword        *string `json:"owner_password"`
	OwnerPasswordConfirm *string `json:"owner_password_confirm"`
}

func (f *Form) apply(p Patch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.Fields.Name, p.Name)
	set(&f.Fields.Address, p.Address)
	set(&f.Fields.Sector, p.Sector)
	set(&f.Fields.City, p.City)
	set(&f.Fields.Phone, p.Phone)
	set(&f.Fields.Email, p.Email)
	set(&f.Fields.WhatsApp, p.WhatsApp)
	set(&f.Fields.Latitude, p.Latitude)
	set(&f.Fields.Longitude, p.Longitude)
	set(&f.Owner.Name, p.OwnerName)
	set(&f.Owner.Email, p.OwnerEmail)
	set(&f.Owner.Password, p.OwnerPassword)
	set(&f.Owner.PasswordConfirm, p.OwnerPasswordConfirm)
}

// ToggleCategory marca/desmarca. Desmarcar a última volta para barberia.
func (f *Form) ToggleCategory(c barbershop.Category) error {
	if !c.Valid() {
		return ErrUnknownCategory
	}

	out := make([]barbershop.Category, 0, len(f.Categories)+1)
	found := false
	for _, k := range f.Categories {
		if k == c {
			found = true
			continue
		}
		out = append(out, k)
	}
	if !found {
		out = append(out, c)
	}
	if len(out) == 0 {
		out = append(out, barbershop.DefaultCategory)
	}
	f.Categories = out
	return nil
}

// ValidationError lista os campos inválidos com a mensagem de cada um.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid form fields: %s", strings.Join(keys, ", "))
}

// Validate roda antes de qualquer chamada de rede.
func (f *Form) Validate() error {
	errs := map[string]string{}

	required := []struct{ key, value, msg string }{
		{"name", f.Fields.Name, "Informe o nome da barbearia."},
		{"address", f.Fields.Address, "Informe o endereço."},
		{"city", f.Fields.City, "Informe a cidade."},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.key] = r.msg
		}
	}

	if strings.TrimSpace(f.Fields.Latitude) == "" || strings.TrimSpace(f.Fields.Longitude) == "" {
		errs["location"] = "Capture a localização antes de salvar."
	} else if !coordinate(f.Fields.Latitude, 90) || !coordinate(f.Fields.Longitude, 180) {
		errs["location"] = "Coordenadas inválidas."
	}

	if f.RequiresOwnerAccount {
		o := f.Owner
		if strings.TrimSpace(o.Name) == "" {
			errs["owner_name"] = "Informe o nome do dono."
		}
		if !validators.IsEmailFormatValid(validators.NormalizeEmail(o.Email)) {
			errs["owner_email"] = "Informe um e-mail válido."
		}
		if len(o.Password) < minOwnerPassword {
			errs["owner_password"] = "A senha precisa de ao menos 6 caracteres."
		} else if o.Password != o.PasswordConfirm {
			errs["owner_password_confirm"] = "As senhas não conferem."
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// payload monta o corpo de create/update. Edição não mexe nos barbeiros.
func (f *Form) payload(photoURL string) barbershop.ShopPayload {
	p := barbershop.ShopPayload{
		Name:       strings.TrimSpace(f.Fields.Name),
		Address:    strings.TrimSpace(f.Fields.Address),
		Sector:     strings.TrimSpace(f.Fields.Sector),
		City:       strings.TrimSpace(f.Fields.City),
		Phone:      strings.TrimSpace(f.Fields.Phone),
		Email:      strings.TrimSpace(f.Fields.Email),
		WhatsApp:   strings.TrimSpace(f.Fields.WhatsApp),
		Latitude:   strings.TrimSpace(f.Fields.Latitude),
		Longitude:  strings.TrimSpace(f.Fields.Longitude),
		Categories: barbershop.CategoryMap(f.Categories),
		PhotoURL:   photoURL,
	}
	if f.Mode == ModeCreate && f.RequiresOwnerAccount {
		p.OwnerName = strings.TrimSpace(f.Owner.Name)
		p.OwnerEmail = validators.NormalizeEmail(f.Owner.Email)
		p.OwnerPassword = f.Owner.Password
	}
	return p
}

func coordinate(raw string, limit float64) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(v) <= limit
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
