package console

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	"github.com/BruksfildServices01/barber-manager/internal/servicemap"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

type ServiceHandler struct {
	store    *state.Store
	platform Platform
	services *servicemap.Manager
}

func NewServiceHandler(store *state.Store, platform Platform, services *servicemap.Manager) *ServiceHandler {
	return &ServiceHandler{store: store, platform: platform, services: services}
}

// servicesOf: gerais mais os exclusivos do shop.
func servicesOf(shopID barbershop.ID, all []barbershop.Service) []barbershop.Service {
	out := make([]barbershop.Service, 0, len(all))
	for _, s := range all {
		if s.IsGeneral() || barbershop.EqualID(*s.ShopID, shopID) {
			out = append(out, s)
		}
	}
	return out
}

func (h *ServiceHandler) List(c *gin.Context) {
	shopID := barbershop.ID(c.Param("id"))
	if _, ok := h.store.Shop(shopID); !ok {
		httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
		return
	}
	httpresp.List(c, servicesOf(shopID, h.store.Snapshot().Services))
}

type createServiceRequest struct {
	Name        string         `json:"name" binding:"required"`
	Price       float64        `json:"price" binding:"gt=0"`
	DurationMin int            `json:"duration_min" binding:"gt=0"`
	Description string         `json:"description"`
	BarberID    *barbershop.ID `json:"barber_id"`
}

var createServiceFields = map[string]httperr.FieldMessage{
	"Name":        {Key: "name", Message: "Informe o nome do serviço."},
	"Price":       {Key: "price", Message: "O preço deve ser maior que zero."},
	"DurationMin": {Key: "duration_min", Message: "A duração deve ser maior que zero."},
}

// Create cria um serviço exclusivo do shop.
func (h *ServiceHandler) Create(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}

	var req createServiceRequest
	fields := map[string]string{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bound, ok := httperr.BindingFields(err, createServiceFields)
		if !ok {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
			return
		}
		fields = bound
	}
	// required aceita nome só com espaços
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = createServiceFields["Name"].Message
	}
	if len(fields) > 0 {
		httperr.Validation(c, fields)
		return
	}

	shopID := shop.ID
	svc, err := platformFor(c, h.platform).CreateService(c.Request.Context(), barbershop.ServicePayload{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Description: strings.TrimSpace(req.Description),
		ShopID:      &shopID,
		BarberID:    req.BarberID,
	})
	if err != nil {
		slog.Error("create service failed", "shop_id", shop.ID.String(), "error", err)
		h.store.Notify(actor.ID, state.SeverityError, "Não foi possível criar o serviço.")
		respondError(c, err)
		return
	}

	h.store.Dispatch(
		state.ServiceCreated{Service: svc},
		state.Notify{To: actor.ID, Message: fmt.Sprintf("Serviço %s criado.", svc.Name), Severity: state.SeveritySuccess},
	)
	httpresp.Created(c, svc)
}

// Delete: serviço exclusivo exige poder sobre o shop; geral, só admin.
func (h *ServiceHandler) Delete(c *gin.Context) {
	actor := actorOf(c, h.store)
	id := barbershop.ID(c.Param("id"))

	var svc barbershop.Service
	found := false
	for _, s := range h.store.Snapshot().Services {
		if barbershop.EqualID(s.ID, id) {
			svc, found = s, true
			break
		}
	}
	if !found {
		httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
		return
	}

	allowed := actor.Roles.Has(barbershop.RoleAdmin)
	if !svc.IsGeneral() {
		if shop, ok := h.store.Shop(*svc.ShopID); ok {
			allowed = barbershop.CanManage(actor, shop)
		}
	}
	if !allowed {
		httperr.Forbidden(c, "forbidden", "Sem permissão para este serviço.")
		return
	}

	if err := platformFor(c, h.platform).DeleteService(c.Request.Context(), svc.ID); err != nil {
		slog.Error("delete service failed", "service_id", svc.ID.String(), "error", err)
		h.store.Notify(actor.ID, state.SeverityError, "Não foi possível excluir o serviço.")
		respondError(c, err)
		return
	}

	h.store.Dispatch(state.ServiceDeleted{ServiceID: svc.ID})
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// barbeiro → serviços
// --------------------------------------------------

func (h *ServiceHandler) BarberServices(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}

	mapping, err := h.services.View(c.Request.Context(), actor.ID, shop.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"mapping": mapping})
}

type toggleRequest struct {
	BarberID  barbershop.ID `json:"barber_id"`
	ServiceID barbershop.ID `json:"service_id"`
}

func (h *ServiceHandler) Toggle(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BarberID.IsZero() || req.ServiceID.IsZero() {
		httperr.BadRequest(c, "invalid_request", "Informe barber_id e service_id.")
		return
	}

	mapping, err := h.services.Toggle(c.Request.Context(), actor.ID, shop.ID, req.BarberID, req.ServiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"mapping": mapping})
}

func (h *ServiceHandler) SaveBarberServices(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}

	mapping, err := h.services.Save(c.Request.Context(), platformFor(c, h.platform), actor.ID, shop.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"mapping": mapping})
}

func (h *ServiceHandler) DiscardBarberServices(c *gin.Context) {
	actor := actorOf(c, h.store)
	shop, ok := manageableShop(c, h.store, actor)
	if !ok {
		return
	}
	if err := h.services.Discard(c.Request.Context(), actor.ID, shop.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
