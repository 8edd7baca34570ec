package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/middleware"
	"github.com/BruksfildServices01/barber-manager/internal/models"
	"github.com/BruksfildServices01/barber-manager/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List filtra pelo shop do token, ou por ?shop_id= quando o usuário é dono
// daquele shop. Admin enxerga tudo.
func (h *AuditLogsHandler) List(c *gin.Context) {
	shopFilter, ok := optionalUintQuery(c, "shop_id")
	if !ok {
		return
	}
	if shopFilter == nil {
		if id, ok := middleware.BarbershopID(c); ok {
			shopFilter = &id
		}
	}

	isAdmin := middleware.Roles(c).Has(barbershop.RoleAdmin)
	if shopFilter == nil && !isAdmin {
		httperr.BadRequest(c, "shop_id_required", "Informe a barbearia.")
		return
	}
	if shopFilter != nil && !isAdmin && !h.canRead(c, *shopFilter) {
		httperr.Forbidden(c, "forbidden", "Sem permissão para esta barbearia.")
		return
	}

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "50")

	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// --------------------------------------------------
	// Query base
	// --------------------------------------------------

	q := h.db.Model(&models.AuditLog{})
	if shopFilter != nil {
		q = q.Where("barbershop_id = ?", *shopFilter)
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr != "" {
		if from, err := time.ParseInLocation("2006-01-02", fromStr, timezone.Current()); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.ParseInLocation("2006-01-02", toStr, timezone.Current()); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	// --------------------------------------------------
	// Response
	// --------------------------------------------------

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}

// canRead: dono do shop ou membro dele.
func (h *AuditLogsHandler) canRead(c *gin.Context, shopID uint) bool {
	userID := middleware.UserID(c)

	var count int64
	h.db.Model(&models.Barbershop{}).
		Where("id = ? AND owner_id = ?", shopID, userID).
		Count(&count)
	if count > 0 {
		return true
	}

	h.db.Model(&models.User{}).
		Where("id = ? AND shop_id = ?", userID, shopID).
		Count(&count)
	return count > 0
}
