package shopform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/cache"
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/remote/remotetest"
	"github.com/BruksfildServices01/barber-manager/internal/state"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
)

// ==============================
// helpers
// ==============================

var owner = barbershop.User{ID: "9", Name: "Dono", Roles: barbershop.NewRoleSet(barbershop.RoleOwner)}

type fixture struct {
	ctl        *Controller
	store      *state.Store
	drafts     *cache.Memory
	previewDir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ownerID := owner.ID
	st := state.NewStore()
	st.Dispatch(state.ShopsLoaded{Shops: []barbershop.Shop{{
		ID:         "10",
		Name:       "Centro",
		Address:    "Rua A",
		City:       "Lima",
		Latitude:   "-12.0",
		Longitude:  "-77.0",
		OwnerID:    &ownerID,
		PhotoURL:   "https://cdn/old.webp",
		BarberIDs:  []barbershop.ID{"1"},
		Categories: map[string]string{"spa": "Spa"},
	}}})

	dir := t.TempDir()
	previews, err := storage.NewPreviewStore(dir)
	if err != nil {
		t.Fatalf("preview store: %v", err)
	}

	drafts := cache.NewMemory()
	return fixture{
		ctl:        NewController(st, drafts, previews, 0),
		store:      st,
		drafts:     drafts,
		previewDir: dir,
	}
}

func str(s string) *string { return &s }

func filledForm(t *testing.T, fx fixture) *Form {
	t.Helper()
	ctx := context.Background()

	f, err := fx.ctl.Open(ctx, owner, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f, err = fx.ctl.Update(ctx, owner.ID, f.ID, Patch{
		Name:      str("Barbería Norte"),
		Address:   str("Av. B 200"),
		City:      str("Lima"),
		Latitude:  str("-12.05"),
		Longitude: str("-77.03"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	return f
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func previewCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

type fakeLocator struct {
	errs  []error
	calls []geo.Options
}

func (l *fakeLocator) Locate(_ context.Context, _ geo.Query, opts geo.Options) (geo.Position, error) {
	l.calls = append(l.calls, opts)
	if i := len(l.calls) - 1; i < len(l.errs) && l.errs[i] != nil {
		return geo.Position{}, l.errs[i]
	}
	return geo.Position{Latitude: -12.046374, Longitude: -77.042793, At: time.Now()}, nil
}

// ==============================
// formulário
// ==============================

func TestToggleCategory_LastOneFallsBackToDefault(t *testing.T) {
	f := &Form{Categories: []barbershop.Category{barbershop.CategorySpa}}

	if err := f.ToggleCategory(barbershop.CategorySpa); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(f.Categories) != 1 || f.Categories[0] != barbershop.CategoryBarberia {
		t.Fatalf("expected fallback to barberia, got %v", f.Categories)
	}

	// desmarcar a default sozinha também não esvazia
	_ = f.ToggleCategory(barbershop.CategoryBarberia)
	if len(f.Categories) != 1 || f.Categories[0] != barbershop.CategoryBarberia {
		t.Fatalf("set must never be empty, got %v", f.Categories)
	}

	if err := f.ToggleCategory("tattoo"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestOpen_EditLoadsShopAndCreateAsksOwnerAccount(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f, err := fx.ctl.Open(ctx, owner, "10")
	if err != nil {
		t.Fatalf("open edit: %v", err)
	}
	if f.Mode != ModeEdit || f.Fields.Name != "Centro" || f.PhotoURL != "https://cdn/old.webp" {
		t.Fatalf("edit form not loaded: %+v", f)
	}
	if len(f.Categories) != 1 || f.Categories[0] != barbershop.CategorySpa {
		t.Fatalf("categories not loaded: %v", f.Categories)
	}

	f, _ = fx.ctl.Open(ctx, owner, "")
	if f.RequiresOwnerAccount {
		t.Fatalf("actor already owns a shop, owner account must not be required")
	}

	newcomer := barbershop.User{ID: "50", Roles: barbershop.NewRoleSet(barbershop.RoleBarber)}
	f, _ = fx.ctl.Open(ctx, newcomer, "")
	if !f.RequiresOwnerAccount {
		t.Fatalf("actor owning no shop must provide an owner account")
	}

	if _, err := fx.ctl.Open(ctx, newcomer, "10"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	f := &Form{Fields: Fields{Name: "X", Address: "Y", City: "Z", Latitude: "-12.0"}}
	var verr *ValidationError
	if err := f.Validate(); !errors.As(err, &verr) || verr.Fields["location"] == "" {
		t.Fatalf("missing longitude must block, got %v", err)
	}

	f.Fields.Longitude = "-77.0"
	if err := f.Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}

	f.RequiresOwnerAccount = true
	f.Owner = OwnerAccount{Name: "Ana", Email: "ana@example.com", Password: "12345", PasswordConfirm: "12345"}
	if err := f.Validate(); !errors.As(err, &verr) || verr.Fields["owner_password"] == "" {
		t.Fatalf("short password must block, got %v", err)
	}

	f.Owner.Password, f.Owner.PasswordConfirm = "123456", "1234567"
	if err := f.Validate(); !errors.As(err, &verr) || verr.Fields["owner_password_confirm"] == "" {
		t.Fatalf("password mismatch must block, got %v", err)
	}
}

// ==============================
// geolocalização
// ==============================

func TestCapture_PermissionDeniedDoesNotRetry(t *testing.T) {
	loc := &fakeLocator{errs: []error{geo.ErrPermissionDenied}}

	_, attempts, err := Capture(context.Background(), loc, nil, geo.Query{City: "Lima"})
	if !errors.Is(err, geo.ErrPermissionDenied) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if attempts != 1 || len(loc.calls) != 1 {
		t.Fatalf("expected one attempt, got %d", len(loc.calls))
	}
}

func TestCapture_DeniedPreCheckSkipsLocator(t *testing.T) {
	loc := &fakeLocator{}

	_, attempts, err := Capture(context.Background(), loc, geo.StaticPermission(geo.PermissionDenied), geo.Query{})
	if !errors.Is(err, geo.ErrPermissionDenied) || attempts != 0 || len(loc.calls) != 0 {
		t.Fatalf("denied pre-check must not call the locator: %v %d", err, len(loc.calls))
	}
}

func TestCapture_TimeoutRetriesRelaxedOnce(t *testing.T) {
	loc := &fakeLocator{errs: []error{geo.ErrTimeout, geo.ErrTimeout}}

	_, attempts, err := Capture(context.Background(), loc, nil, geo.Query{City: "Lima"})
	if !errors.Is(err, geo.ErrTimeout) || attempts != 2 {
		t.Fatalf("expected terminal timeout after 2 attempts, got %v %d", err, attempts)
	}
	if loc.calls[0] != geo.HighAccuracy || loc.calls[1] != geo.Relaxed {
		t.Fatalf("unexpected options %+v", loc.calls)
	}
}

func TestCaptureLocation_StoresCoordinates(t *testing.T) {
	fx := newFixture(t)
	f := filledForm(t, fx)
	loc := &fakeLocator{errs: []error{geo.ErrPositionUnavailable}}

	got, attempts, err := fx.ctl.CaptureLocation(context.Background(), owner.ID, f.ID, loc, nil)
	if err != nil || attempts != 2 {
		t.Fatalf("capture: %v (%d attempts)", err, attempts)
	}
	if got.Fields.Latitude != "-12.046374" || got.Fields.Longitude != "-77.042793" {
		t.Fatalf("coordinates not stored: %+v", got.Fields)
	}
}

// ==============================
// imagem
// ==============================

func TestStageImage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := filledForm(t, fx)
	img := pngBytes(t)

	staged, err := fx.ctl.StageImage(ctx, owner.ID, f.ID, "a.png", "image/png", int64(len(img)), bytes.NewReader(img))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	first := staged.PreviewRef
	if first == "" || previewCount(t, fx.previewDir) != 1 {
		t.Fatalf("valid image must produce a preview")
	}

	// não imagem: recusada, prévia anterior mantida
	_, err = fx.ctl.StageImage(ctx, owner.ID, f.ID, "a.txt", "text/plain", 5, strings.NewReader("hello"))
	if !errors.Is(err, storage.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}

	// grande demais
	_, err = fx.ctl.StageImage(ctx, owner.ID, f.ID, "big.png", "image/png", storage.MaxImageBytes+1, bytes.NewReader(img))
	if !errors.Is(err, storage.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}

	current, _ := fx.ctl.Get(ctx, owner.ID, f.ID)
	if current.PreviewRef != first || previewCount(t, fx.previewDir) != 1 {
		t.Fatalf("rejected files must keep the previous preview")
	}

	// substituir libera a anterior
	replaced, err := fx.ctl.StageImage(ctx, owner.ID, f.ID, "b.png", "image/png", int64(len(img)), bytes.NewReader(img))
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.PreviewRef == first || previewCount(t, fx.previewDir) != 1 {
		t.Fatalf("previous preview must be released")
	}
	if _, err := os.Stat(filepath.Join(fx.previewDir, first)); !os.IsNotExist(err) {
		t.Fatalf("old preview still on disk")
	}
}

// ==============================
// envio
// ==============================

func TestSubmit_UploadFailureStopsEverything(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := filledForm(t, fx)
	img := pngBytes(t)
	if _, err := fx.ctl.StageImage(ctx, owner.ID, f.ID, "a.png", "image/png", int64(len(img)), bytes.NewReader(img)); err != nil {
		t.Fatalf("stage: %v", err)
	}

	api := remotetest.New()
	api.Errors["UploadImage"] = remote.ErrUnavailable
	before := fx.store.Snapshot()

	if _, err := fx.ctl.Submit(ctx, api, owner, f.ID); !errors.Is(err, remote.ErrUnavailable) {
		t.Fatalf("expected upload failure, got %v", err)
	}

	if api.Count("CreateShop") != 0 || api.Count("UpdateShop") != 0 {
		t.Fatalf("no shop call may follow a failed upload")
	}
	after := fx.store.Snapshot()
	if len(after.Shops) != len(before.Shops) || after.Shops[0].PhotoURL != before.Shops[0].PhotoURL {
		t.Fatalf("store changed after failed upload")
	}

	kept, err := fx.ctl.Get(ctx, owner.ID, f.ID)
	if err != nil {
		t.Fatalf("form must stay open: %v", err)
	}
	if kept.Submitting || kept.Fields.Name != "Barbería Norte" || kept.PreviewRef == "" {
		t.Fatalf("form must keep its inputs: %+v", kept)
	}

	notes := fx.store.Notifications(owner.ID, true)
	if len(notes) != 1 || notes[0].Severity != state.SeverityError {
		t.Fatalf("expected one error notification, got %+v", notes)
	}
}

func TestSubmit_CreateWithImage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := filledForm(t, fx)
	img := pngBytes(t)
	_, _ = fx.ctl.StageImage(ctx, owner.ID, f.ID, "a.png", "image/png", int64(len(img)), bytes.NewReader(img))

	api := remotetest.New()
	shop, err := fx.ctl.Submit(ctx, api, owner, f.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(api.Calls) != 2 || api.Calls[0].Method != "UploadImage" || api.Calls[1].Method != "CreateShop" {
		t.Fatalf("unexpected call order %+v", api.Calls)
	}
	sent := api.Calls[1].Args[0].(barbershop.ShopPayload)
	if sent.PhotoURL != api.UploadURL || sent.OwnerEmail != "" {
		t.Fatalf("unexpected payload %+v", sent)
	}

	saved, ok := barbershop.FindShop(fx.store.Snapshot().Shops, shop.ID)
	if !ok || saved.PhotoURL != api.UploadURL || saved.Name != "Barbería Norte" {
		t.Fatalf("shop not dispatched: %+v", saved)
	}
	if saved.OwnerID == nil || *saved.OwnerID != owner.ID {
		t.Fatalf("owner must default to the actor")
	}

	if _, err := fx.ctl.Get(ctx, owner.ID, f.ID); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("form must be closed after submit")
	}
	if previewCount(t, fx.previewDir) != 0 {
		t.Fatalf("preview must be released after submit")
	}
}

func TestSubmit_EditFlattensNestedResponseAndKeepsPhoto(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f, err := fx.ctl.Open(ctx, owner, "10")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, _ = fx.ctl.Update(ctx, owner.ID, f.ID, Patch{Phone: str("555 000")})

	api := remotetest.New()
	api.ShopResponse = json.RawMessage(`{"schedule":{"id":10,"name":"Centro Renovado"},"city":"Cusco"}`)

	shop, err := fx.ctl.Submit(ctx, api, owner, f.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if api.Count("UploadImage") != 0 {
		t.Fatalf("no new image, no upload")
	}
	if shop.Name != "Centro Renovado" || shop.City != "Cusco" || shop.Phone != "555 000" {
		t.Fatalf("unexpected normalization: %+v", shop)
	}

	saved, _ := barbershop.FindShop(fx.store.Snapshot().Shops, "10")
	if saved.PhotoURL != "https://cdn/old.webp" {
		t.Fatalf("retained photo must be registered, got %q", saved.PhotoURL)
	}
	if len(saved.BarberIDs) != 1 || saved.BarberIDs[0] != "1" {
		t.Fatalf("edit must keep barbers, got %v", saved.BarberIDs)
	}
}

func TestSubmit_ValidationMakesNoCalls(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f, _ := fx.ctl.Open(ctx, owner, "")

	api := remotetest.New()
	_, err := fx.ctl.Submit(ctx, api, owner, f.ID)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(api.Calls) != 0 {
		t.Fatalf("validation failure must not call the platform")
	}
}

func TestSubmit_SecondSubmitInFlight(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := filledForm(t, fx)

	if ok, _ := fx.drafts.Acquire(ctx, draftKey(f.ID)+":submit", time.Minute); !ok {
		t.Fatalf("could not take the lock")
	}

	api := remotetest.New()
	if _, err := fx.ctl.Submit(ctx, api, owner, f.ID); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	if len(api.Calls) != 0 {
		t.Fatalf("in-flight submit must not call the platform")
	}
}

func TestPreview_OnlyOwnForm(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := filledForm(t, fx)

	if _, _, err := fx.ctl.Preview(ctx, owner.ID, f.ID); !errors.Is(err, storage.ErrPreviewNotFound) {
		t.Fatalf("expected ErrPreviewNotFound before staging, got %v", err)
	}

	img := pngBytes(t)
	if _, err := fx.ctl.StageImage(ctx, owner.ID, f.ID, "a.png", "image/png", int64(len(img)), bytes.NewReader(img)); err != nil {
		t.Fatalf("stage: %v", err)
	}

	rc, mime, err := fx.ctl.Preview(ctx, owner.ID, f.ID)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	rc.Close()
	if mime != "image/png" {
		t.Fatalf("unexpected mime %q", mime)
	}

	if _, _, err := fx.ctl.Preview(ctx, "77", f.ID); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound for another actor, got %v", err)
	}
}

// ==============================
// limpeza
// ==============================

func TestJanitor_SweepsAbandonedPreviewsAndKeys(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := filledForm(t, fx)

	img := pngBytes(t)
	staged, err := fx.ctl.StageImage(ctx, owner.ID, f.ID, "a.png", "image/png", int64(len(img)), bytes.NewReader(img))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}

	// prévia de um rascunho vencido há um dia
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(fx.previewDir, staged.PreviewRef), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := fx.drafts.Put(ctx, "geocode:abandonada", 1, time.Millisecond); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	previews, err := storage.NewPreviewStore(fx.previewDir)
	if err != nil {
		t.Fatalf("preview store: %v", err)
	}
	j := NewJanitor(previews, fx.drafts, 24*time.Hour)

	p, k := j.Sweep()
	if p != 1 || k != 1 {
		t.Fatalf("expected 1 preview and 1 key swept, got %d and %d", p, k)
	}
	if n := previewCount(t, fx.previewDir); n != 0 {
		t.Fatalf("preview dir should be empty, got %d", n)
	}
	if _, err := fx.ctl.Get(ctx, owner.ID, f.ID); err != nil {
		t.Fatalf("live draft must survive the sweep: %v", err)
	}
}

func TestJanitor_RunStopsWithContext(t *testing.T) {
	fx := newFixture(t)
	previews, err := storage.NewPreviewStore(fx.previewDir)
	if err != nil {
		t.Fatalf("preview store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewJanitor(previews, fx.drafts, 0).Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop")
	}
}
