// Package console expõe para o navegador as operações do painel do dono:
// barbeiros, serviços, formulário de shop e notificações.
package console

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/middleware"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

// Platform devolve o cliente da plataforma autenticado com o token do pedido.
type Platform func(token string) remote.API

func platformFor(c *gin.Context, p Platform) remote.API {
	return p(middleware.Token(c))
}

// actorOf monta o usuário do pedido a partir do store, somando os papéis do token.
func actorOf(c *gin.Context, store *state.Store) barbershop.User {
	id := barbershop.IDFromUint(middleware.UserID(c))
	roles := middleware.Roles(c)

	if u, ok := store.User(id); ok {
		u.Roles |= roles
		return u
	}
	return barbershop.User{ID: id, Roles: roles}
}

// manageableShop carrega o shop de :id e confere a permissão do actor.
func manageableShop(c *gin.Context, store *state.Store, actor barbershop.User) (barbershop.Shop, bool) {
	shop, ok := store.Shop(barbershop.ID(c.Param("id")))
	if !ok {
		httperr.NotFound(c, "shop_not_found", "Barbearia não encontrada.")
		return barbershop.Shop{}, false
	}
	if !barbershop.CanManage(actor, shop) {
		httperr.Forbidden(c, "forbidden", "Sem permissão para esta barbearia.")
		return barbershop.Shop{}, false
	}
	return shop, true
}

// EnsureLoaded carrega o store na primeira requisição autenticada.
func EnsureLoaded(store *state.Store, platform Platform) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store.Loaded() {
			c.Next()
			return
		}
		if err := store.Refresh(c.Request.Context(), platformFor(c, platform)); err != nil {
			slog.Error("initial state load failed", "error", err)
			respondError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
