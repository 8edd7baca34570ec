package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
)

type BarberServiceHandler struct {
	list *ucShop.ListBarberServices
	save *ucShop.SaveBarberServices
}

func NewBarberServiceHandler(
	list *ucShop.ListBarberServices,
	save *ucShop.SaveBarberServices,
) *BarberServiceHandler {
	return &BarberServiceHandler{list: list, save: save}
}

type SaveBarberServicesRequest struct {
	Mapping barbershop.BarberServices `json:"mapping" binding:"required"`
}

func (h *BarberServiceHandler) List(c *gin.Context) {
	shopID, ok := optionalUintQuery(c, "shop_id")
	if !ok {
		return
	}

	mapping, err := h.list.Execute(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, mapping)
}

// Replace sobrescreve por inteiro os serviços de cada barbeiro enviado.
func (h *BarberServiceHandler) Replace(c *gin.Context) {
	shopID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SaveBarberServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	saved, err := h.save.Execute(c.Request.Context(), actorFrom(c), shopID, req.Mapping)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, saved)
}
