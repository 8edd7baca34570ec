package httperr

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldMessage é a chave json e a mensagem de um campo do request.
type FieldMessage struct {
	Key     string
	Message string
}

// BindingFields converte os erros das tags binding em campos para Validation.
// ok=false quando err não veio do validator (json malformado, tipo errado).
func BindingFields(err error, fields map[string]FieldMessage) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fm, ok := fields[fe.Field()]; ok {
			out[fm.Key] = fm.Message
			continue
		}
		out[strings.ToLower(fe.Field())] = "Valor inválido (" + fe.Tag() + ")."
	}
	return out, true
}
