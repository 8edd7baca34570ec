package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/dto"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
)

type UserHandler struct {
	repo  barbershop.Repository
	patch *ucShop.PatchUser
}

func NewUserHandler(repo barbershop.Repository, patch *ucShop.PatchUser) *UserHandler {
	return &UserHandler{repo: repo, patch: patch}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.repo.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, dto.Users(users))
}

func (h *UserHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req barbershop.UserPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	user, err := h.patch.Execute(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, user)
}
