package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/middleware"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
)

type businessResponse struct {
	status  int
	message string
}

var businessErrors = map[string]businessResponse{
	"name_required":         {http.StatusBadRequest, "Nome é obrigatório."},
	"invalid_coordinates":   {http.StatusBadRequest, "Latitude/longitude inválidas."},
	"invalid_barber_id":     {http.StatusBadRequest, "Identificador de barbeiro inválido."},
	"invalid_service_id":    {http.StatusBadRequest, "Identificador de serviço inválido."},
	"invalid_shop_id":       {http.StatusBadRequest, "Identificador de barbearia inválido."},
	"invalid_price":         {http.StatusBadRequest, "O preço deve ser maior que zero."},
	"invalid_duration":      {http.StatusBadRequest, "A duração deve ser maior que zero."},
	"invalid_role":          {http.StatusBadRequest, "Informe ao menos um papel válido."},
	"owner_name_required":   {http.StatusBadRequest, "Nome do proprietário é obrigatório."},
	"invalid_email":         {http.StatusBadRequest, "E-mail inválido."},
	"invalid_email_domain":  {http.StatusBadRequest, "O domínio do e-mail informado não parece ser válido."},
	"password_too_short":    {http.StatusBadRequest, "A senha deve ter pelo menos 6 caracteres."},
	"email_already_exists":  {http.StatusConflict, "Já existe uma conta com este e-mail."},
	"barber_not_found":      {http.StatusBadRequest, "Barbeiro não encontrado."},
	"barber_not_in_shop":    {http.StatusBadRequest, "O barbeiro não pertence a esta barbearia."},
	"service_not_found":     {http.StatusNotFound, "Serviço não encontrado."},
	"service_not_available": {http.StatusBadRequest, "Serviço não disponível para esta barbearia."},
	"shop_not_found":        {http.StatusNotFound, "Barbearia não encontrada."},
	"user_not_found":        {http.StatusNotFound, "Usuário não encontrado."},
	"forbidden":             {http.StatusForbidden, "Sem permissão para esta barbearia."},
}

// respondError traduz erros de negócio; o resto vira 500 com log.
func respondError(c *gin.Context, err error) {
	if code, ok := httperr.BusinessCode(err); ok {
		if resp, known := businessErrors[code]; known {
			httperr.Write(c, resp.status, code, resp.message)
			return
		}
		httperr.BadRequest(c, code, code)
		return
	}

	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}

func actorFrom(c *gin.Context) ucShop.Actor {
	return ucShop.Actor{
		UserID: middleware.UserID(c),
		Roles:  middleware.Roles(c),
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

// optionalUintQuery lê ?key=; ausente devolve nil.
func optionalUintQuery(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+key, "Parâmetro inválido: "+key+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}
