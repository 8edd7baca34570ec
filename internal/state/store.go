package state

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/timezone"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	notificationCapacity = 50
	subscriberBuffer     = 16
)

type Notification struct {
	ID        uint64        `json:"id"`
	Recipient barbershop.ID `json:"recipient"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
	At        time.Time     `json:"at"`
}

// Snapshot é uma cópia dos dados; pode ser lida sem lock.
type Snapshot struct {
	Shops          []barbershop.Shop         `json:"shops"`
	Users          []barbershop.User         `json:"users"`
	Services       []barbershop.Service      `json:"services"`
	BarberServices barbershop.BarberServices `json:"barber_services"`
	LoadedAt       time.Time                 `json:"loaded_at"`
}

type data struct {
	shops          []barbershop.Shop
	users          []barbershop.User
	services       []barbershop.Service
	barberServices barbershop.BarberServices
	loadedAt       time.Time

	// um anel de notificações por destinatário
	notes  map[string][]Notification
	nextID uint64
	subs   map[int]subscriber
	subSeq int
}

type subscriber struct {
	to string
	ch chan Notification
}

// recipientKey normaliza o id: "7" e "7.0" caem no mesmo anel.
func recipientKey(id barbershop.ID) string {
	if v, ok := id.Uint(); ok {
		return strconv.FormatUint(uint64(v), 10)
	}
	return strings.TrimSpace(id.String())
}

func (d *data) notify(to barbershop.ID, msg string, sev Severity) {
	d.nextID++
	n := Notification{ID: d.nextID, Recipient: to, Message: msg, Severity: sev, At: timezone.Now()}

	key := recipientKey(to)
	ring := d.notes[key]
	if len(ring) == notificationCapacity {
		copy(ring, ring[1:])
		ring = ring[:notificationCapacity-1]
	}
	d.notes[key] = append(ring, n)

	for _, sub := range d.subs {
		if sub.to != key {
			continue
		}
		select {
		case sub.ch <- n:
		default:
		}
	}
}

// Store é o cache do console. Só muda via Dispatch.
type Store struct {
	mu sync.RWMutex
	d  data
}

func NewStore() *Store {
	return &Store{d: data{
		barberServices: barbershop.BarberServices{},
		notes:          map[string][]Notification{},
		subs:           map[int]subscriber{},
	}}
}

// Dispatch aplica as ações em ordem, sob um único lock.
func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		a.apply(&s.d)
	}
}

// Notify avisa só o usuário to.
func (s *Store) Notify(to barbershop.ID, sev Severity, format string, args ...any) {
	s.Dispatch(Notify{To: to, Message: fmt.Sprintf(format, args...), Severity: sev})
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Shops:          cloneShops(s.d.shops),
		Users:          cloneUsers(s.d.users),
		Services:       append([]barbershop.Service{}, s.d.services...),
		BarberServices: cloneBarberServices(s.d.barberServices),
		LoadedAt:       s.d.loadedAt,
	}
}

// Notifications devolve as pendentes de to; drain limpa só o anel dele.
func (s *Store) Notifications(to barbershop.ID, drain bool) []Notification {
	if drain {
		s.mu.Lock()
		defer s.mu.Unlock()
	} else {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}

	key := recipientKey(to)
	out := append([]Notification{}, s.d.notes[key]...)
	if drain {
		delete(s.d.notes, key)
	}
	return out
}

// Subscribe recebe cada notificação nova de to. Leitor lento perde mensagens.
func (s *Store) Subscribe(to barbershop.ID) (<-chan Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.d.subSeq++
	id := s.d.subSeq
	ch := make(chan Notification, subscriberBuffer)
	s.d.subs[id] = subscriber{to: recipientKey(to), ch: ch}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.d.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Refresh recarrega tudo da plataforma e despacha ShopsLoaded.
func (s *Store) Refresh(ctx context.Context, api remote.API) error {
	shops, err := api.ListShops(ctx)
	if err != nil {
		return fmt.Errorf("list shops: %w", err)
	}
	users, err := api.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	services, err := api.ListServices(ctx)
	if err != nil {
		return fmt.Errorf("list services: %w", err)
	}
	mapping, err := api.ListBarberServices(ctx)
	if err != nil {
		return fmt.Errorf("list barber services: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ShopsLoaded{
		Shops:          shops,
		Users:          users,
		Services:       services,
		BarberServices: mapping,
	}.apply(&s.d)
	s.d.loadedAt = timezone.Now()
	return nil
}

// Loaded indica se Refresh já rodou.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.d.loadedAt.IsZero()
}

func (s *Store) Shop(id barbershop.ID) (barbershop.Shop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shop, ok := barbershop.FindShop(s.d.shops, id)
	if !ok {
		return barbershop.Shop{}, false
	}
	return cloneShop(shop), true
}

func (s *Store) User(id barbershop.ID) (barbershop.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := barbershop.FindUser(s.d.users, id)
	if !ok {
		return barbershop.User{}, false
	}
	if u.ShopID != nil {
		sid := *u.ShopID
		u.ShopID = &sid
	}
	return u, true
}
