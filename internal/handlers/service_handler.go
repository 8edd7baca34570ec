package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
)

type ServiceHandler struct {
	list   *ucShop.ListServices
	create *ucShop.CreateService
	delete *ucShop.DeleteService
}

func NewServiceHandler(
	list *ucShop.ListServices,
	create *ucShop.CreateService,
	del *ucShop.DeleteService,
) *ServiceHandler {
	return &ServiceHandler{list: list, create: create, delete: del}
}

// --------- Handlers ---------

// List aceita ?shop_id= para gerais + exclusivos do shop.
func (h *ServiceHandler) List(c *gin.Context) {
	shopID, ok := optionalUintQuery(c, "shop_id")
	if !ok {
		return
	}

	services, err := h.list.Execute(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req barbershop.ServicePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	svc, err := h.create.Execute(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
