package servicemap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/cache"
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

// Policy decide o que fazer com as edições quando a plataforma recusa o save.
type Policy int

const (
	// OptimisticOnFailure aplica localmente e devolve ErrSavedLocallyOnly.
	OptimisticOnFailure Policy = iota
	// StrictOnFailure não aplica nada e mantém a sessão aberta.
	StrictOnFailure
)

func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return StrictOnFailure
	}
	return OptimisticOnFailure
}

func (p Policy) String() string {
	if p == StrictOnFailure {
		return "strict"
	}
	return "optimistic"
}

var (
	ErrSavedLocallyOnly = errors.New("service map saved locally only")
	ErrShopNotFound     = errors.New("shop not found")
	ErrBarberNotInShop  = errors.New("barber not in shop")
	ErrServiceNotFound  = errors.New("service not found")
)

const sessionTTL = 12 * time.Hour

type Manager struct {
	store    *state.Store
	sessions cache.Store
	policy   Policy
}

func NewManager(store *state.Store, sessions cache.Store, policy Policy) *Manager {
	return &Manager{store: store, sessions: sessions, policy: policy}
}

func (m *Manager) Policy() Policy {
	return m.policy
}

func sessionKey(owner, shop barbershop.ID) string {
	return fmt.Sprintf("servicemap:%s:%s", owner, shop)
}

// Session carrega a sessão do owner ou abre uma nova.
func (m *Manager) Session(ctx context.Context, owner, shop barbershop.ID) (*Session, error) {
	var s Session
	err := m.sessions.Get(ctx, sessionKey(owner, shop), &s)
	if errors.Is(err, cache.ErrMiss) {
		return NewSession(owner, shop), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load service session: %w", err)
	}
	if s.Edits == nil {
		s.Edits = map[barbershop.ID][]barbershop.ID{}
	}
	return &s, nil
}

// Discard abandona as edições não salvas.
func (m *Manager) Discard(ctx context.Context, owner, shop barbershop.ID) error {
	return m.sessions.Delete(ctx, sessionKey(owner, shop))
}

// View devolve o mapa em vigor (edições sobre o salvo) dos barbeiros do shop.
func (m *Manager) View(ctx context.Context, owner, shopID barbershop.ID) (barbershop.BarberServices, error) {
	snap := m.store.Snapshot()
	shop, ok := barbershop.FindShop(snap.Shops, shopID)
	if !ok {
		return nil, ErrShopNotFound
	}

	sess, err := m.Session(ctx, owner, shopID)
	if err != nil {
		return nil, err
	}
	return merged(sess, shop, snap), nil
}

func (m *Manager) Toggle(ctx context.Context, owner, shopID, barberID, serviceID barbershop.ID) (barbershop.BarberServices, error) {
	snap := m.store.Snapshot()
	shop, ok := barbershop.FindShop(snap.Shops, shopID)
	if !ok {
		return nil, ErrShopNotFound
	}
	if !barbershop.ContainsID(barbershop.BarberIDsOf(shop, snap.Users), barberID) {
		return nil, ErrBarberNotInShop
	}
	if !serviceExists(snap.Services, serviceID) {
		return nil, ErrServiceNotFound
	}

	sess, err := m.Session(ctx, owner, shopID)
	if err != nil {
		return nil, err
	}
	sess.Toggle(barberID, serviceID, snap.BarberServices[barberID])

	if err := m.sessions.Put(ctx, sessionKey(owner, shopID), sess, sessionTTL); err != nil {
		return nil, fmt.Errorf("store service session: %w", err)
	}
	return merged(sess, shop, snap), nil
}

// Save envia o mapa completo dos barbeiros do shop numa única chamada.
func (m *Manager) Save(ctx context.Context, api remote.API, owner, shopID barbershop.ID) (barbershop.BarberServices, error) {
	snap := m.store.Snapshot()
	shop, ok := barbershop.FindShop(snap.Shops, shopID)
	if !ok {
		return nil, ErrShopNotFound
	}

	sess, err := m.Session(ctx, owner, shopID)
	if err != nil {
		return nil, err
	}
	mapping := merged(sess, shop, snap)

	remoteErr := api.SaveBarberServicesForShop(ctx, shopID, mapping)
	if remoteErr != nil {
		slog.Error("save barber services failed",
			"shop_id", shopID.String(),
			"policy", m.policy.String(),
			"error", remoteErr,
		)
		if m.policy == StrictOnFailure {
			m.store.Notify(owner, state.SeverityError, "Não foi possível salvar os serviços. Tente novamente.")
			return nil, fmt.Errorf("save barber services: %w", remoteErr)
		}
	}

	actions := make([]state.Action, 0, len(mapping)+1)
	for barber, services := range mapping {
		actions = append(actions, state.BarberServicesSet{BarberID: barber, ServiceIDs: services})
	}

	if remoteErr != nil {
		actions = append(actions, state.Notify{
			To:       owner,
			Message:  "Serviços aplicados só neste console; a plataforma recusou a gravação.",
			Severity: state.SeverityError,
		})
	} else {
		actions = append(actions, state.Notify{
			To:       owner,
			Message:  fmt.Sprintf("Serviços de %s salvos.", shop.Name),
			Severity: state.SeveritySuccess,
		})
	}
	m.store.Dispatch(actions...)

	if err := m.Discard(ctx, owner, shopID); err != nil {
		slog.Warn("discard service session failed", "shop_id", shopID.String(), "error", err)
	}

	if remoteErr != nil {
		return mapping, fmt.Errorf("%w: %w", ErrSavedLocallyOnly, remoteErr)
	}
	return mapping, nil
}

func merged(sess *Session, shop barbershop.Shop, snap state.Snapshot) barbershop.BarberServices {
	out := barbershop.BarberServices{}
	for _, b := range barbershop.BarbersOf(shop, snap.Users) {
		out[b.ID] = sess.Selected(b.ID, snap.BarberServices[b.ID])
	}
	return out
}

func serviceExists(services []barbershop.Service, id barbershop.ID) bool {
	for _, s := range services {
		if barbershop.EqualID(s.ID, id) {
			return true
		}
	}
	return false
}
