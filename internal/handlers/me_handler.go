package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/dto"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	"github.com/BruksfildServices01/barber-manager/internal/middleware"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
)

type MeHandler struct {
	repo  barbershop.Repository
	shops *ucShop.ListShops
}

func NewMeHandler(repo barbershop.Repository, shops *ucShop.ListShops) *MeHandler {
	return &MeHandler{repo: repo, shops: shops}
}

type MeResponse struct {
	User barbershop.User `json:"user"`
	// shop ao qual o usuário está vinculado
	Shop *barbershop.Shop `json:"shop"`
	// shops de que é dono
	OwnedShops []barbershop.Shop `json:"owned_shops"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.repo.GetUser(ctx, middleware.UserID(c))
	if err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		respondError(c, err)
		return
	}

	shops, err := h.shops.Execute(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	me := dto.User(*user)
	resp := MeResponse{
		User:       me,
		OwnedShops: barbershop.ShopsOwnedBy(shops, me.ID),
	}
	if me.ShopID != nil {
		if s, ok := barbershop.FindShop(shops, *me.ShopID); ok {
			resp.Shop = &s
		}
	}

	httpresp.OK(c, resp)
}
