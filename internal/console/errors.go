package console

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/association"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/servicemap"
	"github.com/BruksfildServices01/barber-manager/internal/shopform"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
)

type mapped struct {
	err     error
	status  int
	code    string
	message string
}

// ordem importa: ErrSavedLocallyOnly embrulha o erro remoto
var knownErrors = []mapped{
	{servicemap.ErrSavedLocallyOnly, http.StatusBadGateway, "saved_locally_only", "Serviços aplicados só no console; a plataforma recusou a gravação."},
	{association.ErrMoveNeedsConfirmation, http.StatusConflict, "move_needs_confirmation", "Você já pertence a outra barbearia. Confirme a mudança."},
	{shopform.ErrSubmitInFlight, http.StatusConflict, "submit_in_flight", "O formulário já está sendo enviado."},
	{shopform.ErrFormNotFound, http.StatusNotFound, "form_not_found", "Formulário não encontrado."},
	{shopform.ErrShopNotFound, http.StatusNotFound, "shop_not_found", "Barbearia não encontrada."},
	{servicemap.ErrShopNotFound, http.StatusNotFound, "shop_not_found", "Barbearia não encontrada."},
	{shopform.ErrForbidden, http.StatusForbidden, "forbidden", "Sem permissão para esta barbearia."},
	{shopform.ErrUnknownCategory, http.StatusBadRequest, "unknown_category", "Categoria desconhecida."},
	{shopform.ErrInvalidLocation, http.StatusBadRequest, "invalid_coordinates", "Latitude/longitude inválidas."},
	{servicemap.ErrBarberNotInShop, http.StatusBadRequest, "barber_not_in_shop", "O barbeiro não pertence a esta barbearia."},
	{servicemap.ErrServiceNotFound, http.StatusNotFound, "service_not_found", "Serviço não encontrado."},
	{storage.ErrNotImage, http.StatusUnsupportedMediaType, "not_an_image", "Selecione um arquivo de imagem."},
	{storage.ErrImageTooLarge, http.StatusRequestEntityTooLarge, "image_too_large", "A imagem deve ter no máximo 10 MB."},
	{storage.ErrPreviewNotFound, http.StatusNotFound, "preview_not_found", "Prévia não encontrada."},
	{geo.ErrPermissionDenied, http.StatusUnprocessableEntity, "location_permission_denied", geo.Message(geo.ErrPermissionDenied)},
	{geo.ErrTimeout, http.StatusUnprocessableEntity, "location_timeout", geo.Message(geo.ErrTimeout)},
	{geo.ErrPositionUnavailable, http.StatusUnprocessableEntity, "location_unavailable", geo.Message(geo.ErrPositionUnavailable)},
}

// respondError: validação vira 422; erro 4xx da plataforma passa adiante;
// rede e 5xx viram 502.
func respondError(c *gin.Context, err error) {
	var verr *shopform.ValidationError
	if errors.As(err, &verr) {
		httperr.Validation(c, verr.Fields)
		return
	}

	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			httperr.Write(c, m.status, m.code, m.message)
			return
		}
	}

	if rerr, ok := remote.AsError(err); ok && rerr.Status < http.StatusInternalServerError {
		code := rerr.Code
		if code == "" {
			code = "platform_error"
		}
		msg := rerr.Message
		if msg == "" {
			msg = "A plataforma recusou a operação."
		}
		httperr.Write(c, rerr.Status, code, msg)
		return
	}

	if errors.Is(err, remote.ErrUnavailable) {
		slog.Warn("platform unavailable", "path", c.FullPath(), "error", err)
		httperr.BadGateway(c, "platform_unavailable", "Não foi possível falar com a plataforma. Tente novamente.")
		return
	}

	slog.Error("request failed",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	httperr.Internal(c, "internal_error", "Erro interno. Tente novamente.")
}
