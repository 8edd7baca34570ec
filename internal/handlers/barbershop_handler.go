package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
)

type BarbershopHandler struct {
	list   *ucShop.ListShops
	save   *ucShop.SaveShop
	delete *ucShop.DeleteShop
}

func NewBarbershopHandler(
	list *ucShop.ListShops,
	save *ucShop.SaveShop,
	del *ucShop.DeleteShop,
) *BarbershopHandler {
	return &BarbershopHandler{
		list:   list,
		save:   save,
		delete: del,
	}
}

func (h *BarbershopHandler) List(c *gin.Context) {
	shops, err := h.list.Execute(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, shops)
}

func (h *BarbershopHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	shop, err := h.list.One(c.Request.Context(), id)
	if err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
			return
		}
		respondError(c, err)
		return
	}
	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) Create(c *gin.Context) {
	var req barbershop.ShopPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	shop, err := h.save.Execute(c.Request.Context(), ucShop.SaveShopInput{
		Actor:   actorFrom(c),
		Payload: req,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, shop)
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req barbershop.ShopPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	shop, err := h.save.Execute(c.Request.Context(), ucShop.SaveShopInput{
		Actor:   actorFrom(c),
		ShopID:  id,
		Payload: req,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, shop)
}

func (h *BarbershopHandler) Delete(c *gin.Context) {
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
