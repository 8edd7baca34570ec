package console

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/httpresp"
	"github.com/BruksfildServices01/barber-manager/internal/shopform"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

type FormHandler struct {
	store    *state.Store
	platform Platform
	forms    *shopform.Controller
	locator  geo.Locator
}

func NewFormHandler(
	store *state.Store,
	platform Platform,
	forms *shopform.Controller,
	locator geo.Locator,
) *FormHandler {
	return &FormHandler{
		store:    store,
		platform: platform,
		forms:    forms,
		locator:  locator,
	}
}

type formResponse struct {
	shopform.Form
	PreviewURL string `json:"preview_url,omitempty"`
}

func present(f *shopform.Form) formResponse {
	out := formResponse{Form: f.Public()}
	if f.PreviewRef != "" {
		out.PreviewURL = "/api/forms/" + f.ID + "/preview"
	}
	return out
}

type openFormRequest struct {
	ShopID barbershop.ID `json:"shop_id"`
}

// Open: sem shop_id abre criação; com shop_id, edição.
func (h *FormHandler) Open(c *gin.Context) {
	var req openFormRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
			return
		}
	}

	f, err := h.forms.Open(c.Request.Context(), actorOf(c, h.store), req.ShopID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Created(c, present(f))
}

func (h *FormHandler) Get(c *gin.Context) {
	f, err := h.forms.Get(c.Request.Context(), actorOf(c, h.store).ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, present(f))
}

func (h *FormHandler) Update(c *gin.Context) {
	var p shopform.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	f, err := h.forms.Update(c.Request.Context(), actorOf(c, h.store).ID, c.Param("id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, present(f))
}

func (h *FormHandler) ToggleCategory(c *gin.Context) {
	f, err := h.forms.ToggleCategory(c.Request.Context(), actorOf(c, h.store).ID, c.Param("id"), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, present(f))
}

type locationRequest struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

func (h *FormHandler) SetLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	f, err := h.forms.SetLocation(c.Request.Context(), actorOf(c, h.store).ID, c.Param("id"), req.Latitude, req.Longitude)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, present(f))
}

type captureRequest struct {
	// estado da permissão informado pelo navegador
	Permission geo.Permission `json:"permission"`
}

type captureResponse struct {
	Form     formResponse `json:"form"`
	Attempts int          `json:"attempts"`
}

func (h *FormHandler) CaptureLocation(c *gin.Context) {
	var req captureRequest
	_ = c.ShouldBindJSON(&req)

	f, attempts, err := h.forms.CaptureLocation(
		c.Request.Context(),
		actorOf(c, h.store).ID,
		c.Param("id"),
		h.locator,
		geo.StaticPermission(req.Permission),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, captureResponse{Form: present(f), Attempts: attempts})
}

// StageImage recebe o arquivo no campo "file".
func (h *FormHandler) StageImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "file_required", "Selecione uma imagem.")
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	f, err := h.forms.StageImage(
		c.Request.Context(),
		actorOf(c, h.store).ID,
		c.Param("id"),
		file.Filename,
		file.Header.Get("Content-Type"),
		file.Size,
		src,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, present(f))
}

// Preview só serve a prévia do próprio formulário do actor.
func (h *FormHandler) Preview(c *gin.Context) {
	body, mimeType, err := h.forms.Preview(c.Request.Context(), actorOf(c, h.store).ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer body.Close()

	c.Header("Cache-Control", "private, max-age=300")
	c.Header("Content-Type", mimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, body)
}

func (h *FormHandler) Submit(c *gin.Context) {
	shop, err := h.forms.Submit(
		c.Request.Context(),
		platformFor(c, h.platform),
		actorOf(c, h.store),
		c.Param("id"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, shop)
}

func (h *FormHandler) Discard(c *gin.Context) {
	if err := h.forms.Discard(c.Request.Context(), actorOf(c, h.store).ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
