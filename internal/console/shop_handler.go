package console

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/association"
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	"github.com/BruksfildServices01/barber-manager/internal/links"
	"github.com/BruksfildServices01/barber-manager/internal/report"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

type ShopHandler struct {
	store    *state.Store
	platform Platform
	sync     *association.Synchronizer
}

func NewShopHandler(store *state.Store, platform Platform, sync *association.Synchronizer) *ShopHandler {
	return &ShopHandler{store: store, platform: platform, sync: sync}
}

type barbersResponse struct {
	Barbers    []barbershop.User `json:"barbers"`
	Unassigned []barbershop.User `json:"unassigned"`
}

// Barbers lista os barbeiros do shop e os livres para o seletor.
func (h *ShopHandler) Barbers(c *gin.Context) {
	shop, ok := h.store.Shop(barbershop.ID(c.Param("id")))
	if !ok {
		httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
		return
	}
	snap := h.store.Snapshot()
	httpresp.OK(c, barbersResponse{
		Barbers:    barbershop.BarbersOf(shop, snap.Users),
		Unassigned: barbershop.UnassignedBarbers(snap.Shops, snap.Users),
	})
}

type setBarbersRequest struct {
	BarberIDs   []barbershop.ID `json:"barber_ids"`
	ConfirmMove bool            `json:"confirm_move"`
}

func (h *ShopHandler) SetBarbers(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}

	var req setBarbersRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BarberIDs == nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	plan := association.NewPlan(shop, req.BarberIDs, h.store.Snapshot().Users)
	saved, err := h.sync.Sync(c.Request.Context(), platformFor(c, h.platform), actor.ID, plan, req.ConfirmMove)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, saved)
}

type selfAssignRequest struct {
	ConfirmMove bool `json:"confirm_move"`
}

// SelfAssign coloca o próprio usuário como barbeiro do shop.
func (h *ShopHandler) SelfAssign(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}

	var req selfAssignRequest
	_ = c.ShouldBindJSON(&req)
	if c.Query("confirm") == "true" {
		req.ConfirmMove = true
	}

	saved, err := h.sync.SelfAssign(
		c.Request.Context(),
		platformFor(c, h.platform),
		actor,
		shop,
		h.store.Snapshot().Users,
		req.ConfirmMove,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, saved)
}

// Delete exige ?confirm=true.
func (h *ShopHandler) Delete(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		httperr.BadRequest(c, "confirmation_required", "Confirme a exclusão da barbearia.")
		return
	}

	if err := platformFor(c, h.platform).DeleteShop(c.Request.Context(), shop.ID); err != nil {
		slog.Error("delete shop failed", "shop_id", shop.ID.String(), "error", err)
		h.store.Notify(actor.ID, state.SeverityError, "Não foi possível excluir %s.", shop.Name)
		respondError(c, err)
		return
	}

	h.store.Dispatch(
		state.ShopDeleted{ShopID: shop.ID},
		state.Notify{To: actor.ID, Message: fmt.Sprintf("Barbearia %s excluída.", shop.Name), Severity: state.SeveritySuccess},
	)
	c.Status(http.StatusNoContent)
}

func (h *ShopHandler) Links(c *gin.Context) {
	shop, ok := h.store.Shop(barbershop.ID(c.Param("id")))
	if !ok {
		httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
		return
	}
	httpresp.OK(c, links.For(shop))
}

// QRCode devolve o PNG do link :kind (directions ou whatsapp).
func (h *ShopHandler) QRCode(c *gin.Context) {
	shop, ok := h.store.Shop(barbershop.ID(c.Param("id")))
	if !ok {
		httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
		return
	}

	l := links.For(shop)
	var target string
	switch c.Param("kind") {
	case "directions":
		target = l.Directions
	case "whatsapp":
		target = l.WhatsApp
	default:
		httperr.BadRequest(c, "invalid_link_kind", "Tipo de link inválido.")
		return
	}
	if target == "" {
		httperr.NotFound(c, "link_unavailable", "A barbearia não tem dados para este link.")
		return
	}

	png, err := links.QRCode(target, 256)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Sheet gera a ficha em PDF.
func (h *ShopHandler) Sheet(c *gin.Context) {
	shop, ok := h.store.Shop(barbershop.ID(c.Param("id")))
	if !ok {
		httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
		return
	}
	snap := h.store.Snapshot()

	sheet := report.ShopSheet{
		Shop:     shop,
		Barbers:  barbershop.BarbersOf(shop, snap.Users),
		Services: servicesOf(shop.ID, snap.Services),
		Links:    links.For(shop),
	}

	var buf bytes.Buffer
	if err := sheet.Write(&buf); err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=shop-%s.pdf", shop.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
