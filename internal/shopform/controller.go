package shopform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-manager/internal/cache"
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/state"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
)

var (
	ErrFormNotFound    = errors.New("form not found")
	ErrShopNotFound    = errors.New("shop not found")
	ErrForbidden       = errors.New("actor cannot manage this shop")
	ErrUnknownCategory = errors.New("unknown category")
	ErrSubmitInFlight  = errors.New("submit already in progress")
	ErrInvalidLocation = errors.New("invalid coordinates")
)

const (
	defaultDraftTTL = 24 * time.Hour
	submitLock      = 2 * time.Minute
	sniffLen        = 512
)

// Previews guarda as imagens escolhidas até o envio.
type Previews interface {
	Stage(r io.Reader, mimeType string) (string, error)
	Open(ref string) (io.ReadCloser, string, error)
	Release(ref string)
}

type Controller struct {
	store    *state.Store
	drafts   cache.Store
	previews Previews
	ttl      time.Duration
	now      func() time.Time
}

// NewController: ttl <= 0 mantém rascunhos por 24h.
func NewController(store *state.Store, drafts cache.Store, previews Previews, ttl time.Duration) *Controller {
	if ttl <= 0 {
		ttl = defaultDraftTTL
	}
	return &Controller{
		store:    store,
		drafts:   drafts,
		previews: previews,
		ttl:      ttl,
		now:      time.Now,
	}
}

func draftKey(id string) string {
	return "form:" + id
}

// Open cria o rascunho. shopID vazio abre em modo de criação; senão carrega o
// shop do store para edição.
func (c *Controller) Open(ctx context.Context, actor barbershop.User, shopID barbershop.ID) (*Form, error) {
	snap := c.store.Snapshot()

	f := &Form{
		ID:         uuid.NewString(),
		Mode:       ModeCreate,
		ActorID:    actor.ID,
		Categories: []barbershop.Category{barbershop.DefaultCategory},
		CreatedAt:  c.now(),
	}

	if shopID.IsZero() {
		f.RequiresOwnerAccount = len(barbershop.ShopsOwnedBy(snap.Shops, actor.ID)) == 0
	} else {
		shop, ok := barbershop.FindShop(snap.Shops, shopID)
		if !ok {
			return nil, ErrShopNotFound
		}
		if !barbershop.CanManage(actor, shop) {
			return nil, ErrForbidden
		}
		f.Mode = ModeEdit
		f.ShopID = shop.ID
		f.PhotoURL = shop.PhotoURL
		f.Fields = Fields{
			Name:      shop.Name,
			Address:   shop.Address,
			Sector:    shop.Sector,
			City:      shop.City,
			Phone:     shop.Phone,
			Email:     shop.Email,
			WhatsApp:  shop.WhatsApp,
			Latitude:  shop.Latitude,
			Longitude: shop.Longitude,
		}
		if keys := barbershop.CategoryKeys(shop.Categories); len(keys) > 0 {
			f.Categories = keys
		}
	}

	if err := c.save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Get só devolve rascunhos do próprio actor.
func (c *Controller) Get(ctx context.Context, actor barbershop.ID, id string) (*Form, error) {
	var f Form
	if err := c.drafts.Get(ctx, draftKey(id), &f); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("load form: %w", err)
	}
	if f.ActorID != actor {
		return nil, ErrFormNotFound
	}
	return &f, nil
}

func (c *Controller) save(ctx context.Context, f *Form) error {
	if err := c.drafts.Put(ctx, draftKey(f.ID), f, c.ttl); err != nil {
		return fmt.Errorf("store form: %w", err)
	}
	return nil
}

func (c *Controller) Update(ctx context.Context, actor barbershop.ID, id string, p Patch) (*Form, error) {
	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	f.apply(p)
	if err := c.save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (c *Controller) ToggleCategory(ctx context.Context, actor barbershop.ID, id, key string) (*Form, error) {
	cat, ok := barbershop.ParseCategory(key)
	if !ok {
		return nil, ErrUnknownCategory
	}

	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := f.ToggleCategory(cat); err != nil {
		return nil, err
	}
	if err := c.save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// SetLocation grava coordenadas digitadas à mão.
func (c *Controller) SetLocation(ctx context.Context, actor barbershop.ID, id, lat, lng string) (*Form, error) {
	if !coordinate(lat, 90) || !coordinate(lng, 180) {
		return nil, ErrInvalidLocation
	}

	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	f.Fields.Latitude = lat
	f.Fields.Longitude = lng
	if err := c.save(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// CaptureLocation tenta alta precisão e, se a falha não for de permissão,
// uma segunda vez no modo relaxado. Devolve o número de tentativas.
func (c *Controller) CaptureLocation(
	ctx context.Context,
	actor barbershop.ID,
	id string,
	locator geo.Locator,
	perm geo.PermissionChecker,
) (*Form, int, error) {

	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return nil, 0, err
	}

	pos, attempts, err := Capture(ctx, locator, perm, geo.Query{
		Address: f.Fields.Address,
		Sector:  f.Fields.Sector,
		City:    f.Fields.City,
	})
	if err != nil {
		c.store.Notify(actor, state.SeverityError, "%s", geo.Message(err))
		return f, attempts, err
	}

	f.Fields.Latitude = formatCoordinate(pos.Latitude)
	f.Fields.Longitude = formatCoordinate(pos.Longitude)
	if err := c.save(ctx, f); err != nil {
		return nil, attempts, err
	}
	return f, attempts, nil
}

func Capture(
	ctx context.Context,
	locator geo.Locator,
	perm geo.PermissionChecker,
	q geo.Query,
) (geo.Position, int, error) {

	if perm != nil {
		if st, err := perm.Permission(ctx); err == nil && st == geo.PermissionDenied {
			return geo.Position{}, 0, geo.ErrPermissionDenied
		}
	}

	pos, err := locator.Locate(ctx, q, geo.HighAccuracy)
	if err == nil {
		return pos, 1, nil
	}
	if errors.Is(err, geo.ErrPermissionDenied) {
		return geo.Position{}, 1, err
	}

	slog.Info("high accuracy location failed, retrying relaxed", "error", err)
	pos, err = locator.Locate(ctx, q, geo.Relaxed)
	if err != nil {
		return geo.Position{}, 2, err
	}
	return pos, 2, nil
}

// StageImage valida e guarda a prévia. Arquivo recusado mantém a imagem anterior.
func (c *Controller) StageImage(
	ctx context.Context,
	actor barbershop.ID,
	id string,
	filename string,
	mimeType string,
	size int64,
	r io.Reader,
) (*Form, error) {

	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read image: %w", err)
	}
	head = head[:n]

	if err := storage.CheckImage(mimeType, size, head, storage.MaxImageBytes); err != nil {
		return nil, err
	}

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), storage.MaxImageBytes)
	ref, err := c.previews.Stage(body, mimeType)
	if err != nil {
		return nil, err
	}

	previous := f.PreviewRef
	f.PreviewRef = ref
	f.PreviewName = filename
	f.PreviewMIME = mimeType
	if err := c.save(ctx, f); err != nil {
		c.previews.Release(ref)
		return nil, err
	}
	c.previews.Release(previous)
	return f, nil
}

// Preview abre a imagem preparada no formulário do actor.
func (c *Controller) Preview(ctx context.Context, actor barbershop.ID, id string) (io.ReadCloser, string, error) {
	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if f.PreviewRef == "" {
		return nil, "", storage.ErrPreviewNotFound
	}
	return c.previews.Open(f.PreviewRef)
}

// Discard fecha o formulário sem salvar.
func (c *Controller) Discard(ctx context.Context, actor barbershop.ID, id string) error {
	f, err := c.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	c.previews.Release(f.PreviewRef)
	return c.drafts.Delete(ctx, draftKey(id))
}
