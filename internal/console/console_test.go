package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/BruksfildServices01/barber-manager/internal/association"
	"github.com/BruksfildServices01/barber-manager/internal/cache"
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/httperr"
	"github.com/BruksfildServices01/barber-manager/internal/remote"
	"github.com/BruksfildServices01/barber-manager/internal/remote/remotetest"
	"github.com/BruksfildServices01/barber-manager/internal/servicemap"
	"github.com/BruksfildServices01/barber-manager/internal/shopform"
	"github.com/BruksfildServices01/barber-manager/internal/state"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
)

const testSecret = "console-test-secret"

type stubLocator struct {
	calls int
	fail  int
	pos   geo.Position
}

func (s *stubLocator) Locate(context.Context, geo.Query, geo.Options) (geo.Position, error) {
	s.calls++
	if s.calls <= s.fail {
		return geo.Position{}, geo.ErrTimeout
	}
	return s.pos, nil
}

type testEnv struct {
	router  *gin.Engine
	fake    *remotetest.Fake
	store   *state.Store
	locator *stubLocator
}

func idp(s string) *barbershop.ID {
	id := barbershop.ID(s)
	return &id
}

// usuários: 1 dono do shop 10; 5 dono do 20; 7 admin+barbeiro no 20.
func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	barber := barbershop.NewRoleSet(barbershop.RoleBarber)

	fake := remotetest.New()
	fake.Shops = []barbershop.Shop{
		{ID: "10", Name: "Centro", Address: "Rua A, 10", City: "Cidade", Latitude: "-23.5", Longitude: "-46.6", Phone: "8095551234", OwnerID: idp("1"), BarberIDs: []barbershop.ID{"2"}},
		{ID: "20", Name: "Norte", City: "Cidade", OwnerID: idp("5"), BarberIDs: []barbershop.ID{"6", "7"}},
	}
	fake.Users = []barbershop.User{
		{ID: "1", Name: "Ana", Roles: barbershop.NewRoleSet(barbershop.RoleOwner)},
		{ID: "2", Name: "Bruno", Roles: barber, ShopID: idp("10")},
		{ID: "3", Name: "Caio", Roles: barber},
		{ID: "5", Name: "Edu", Roles: barbershop.NewRoleSet(barbershop.RoleOwner)},
		{ID: "6", Name: "Fabio", Roles: barber, ShopID: idp("20")},
		{ID: "7", Name: "Gil", Roles: barbershop.NewRoleSet(barbershop.RoleAdmin, barbershop.RoleBarber), ShopID: idp("20")},
	}
	fake.Services = []barbershop.Service{
		{ID: "s1", Name: "Corte", Price: 30, DurationMin: 30},
		{ID: "s10", Name: "Barba", Price: 20, DurationMin: 20, ShopID: idp("10")},
		{ID: "s20", Name: "Pigmentação", Price: 50, DurationMin: 40, ShopID: idp("20")},
	}

	store := state.NewStore()
	drafts := cache.NewMemory()
	previews, err := storage.NewPreviewStore(t.TempDir())
	if err != nil {
		t.Fatalf("preview store: %v", err)
	}
	locator := &stubLocator{pos: geo.Position{Latitude: -23.55052, Longitude: -46.633308}}

	r := gin.New()
	Register(r, Deps{
		JWTSecret: testSecret,
		Store:     store,
		Platform:  func(string) remote.API { return fake },
		Sync:      association.NewSynchronizer(store, association.Options{}),
		Services:  servicemap.NewManager(store, drafts, servicemap.OptimisticOnFailure),
		Forms:     shopform.NewController(store, drafts, previews, 0),
		Locator:   locator,
	})

	return &testEnv{router: r, fake: fake, store: store, locator: locator}
}

func token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestConsole_RequiresToken(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/state", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if e.fake.Count("ListShops") != 0 {
		t.Fatalf("platform should not be called without a token")
	}
}

func TestConsole_LoadsStateOnce(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	for i := 0; i < 2; i++ {
		if w := e.do(t, http.MethodGet, "/api/state", tok, nil); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	}
	if n := e.fake.Count("ListShops"); n != 1 {
		t.Fatalf("expected a single load, got %d", n)
	}

	snap := e.store.Snapshot()
	if len(snap.Shops) != 2 || len(snap.Users) != 6 {
		t.Fatalf("unexpected snapshot: %d shops, %d users", len(snap.Shops), len(snap.Users))
	}
}

func TestConsole_LoadFailureIsBadGateway(t *testing.T) {
	e := newEnv(t)
	e.fake.Errors["ListShops"] = fmt.Errorf("dial tcp: %w", remote.ErrUnavailable)

	w := e.do(t, http.MethodGet, "/api/stats", token(t, 1, "owner"), nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if e.store.Loaded() {
		t.Fatalf("store should stay unloaded")
	}
}

func TestConsole_SetBarbersNeedsMoveConfirmation(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 7, "admin barber")
	body := map[string]any{"barber_ids": []string{"2", "7"}}

	w := e.do(t, http.MethodPut, "/api/shops/10/barbers", tok, body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[httperr.HTTPError](t, w).Code; got != "move_needs_confirmation" {
		t.Fatalf("unexpected error code %q", got)
	}
	if e.fake.Count("UpdateShop") != 0 {
		t.Fatalf("nothing should reach the platform before confirmation")
	}

	body["confirm_move"] = true
	w = e.do(t, http.MethodPut, "/api/shops/10/barbers", tok, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	centro, _ := e.store.Shop("10")
	if !barbershop.ContainsID(centro.BarberIDs, "7") {
		t.Fatalf("barber 7 should join shop 10, got %v", centro.BarberIDs)
	}
	norte, _ := e.store.Shop("20")
	if barbershop.ContainsID(norte.BarberIDs, "7") {
		t.Fatalf("barber 7 should leave shop 20, got %v", norte.BarberIDs)
	}
	u, _ := e.store.User("7")
	if u.ShopID == nil || *u.ShopID != "10" {
		t.Fatalf("user 7 should point to shop 10, got %v", u.ShopID)
	}
}

func TestConsole_OwnerCannotManageOtherShop(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodDelete, "/api/shops/10?confirm=true", token(t, 5, "owner"), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if e.fake.Count("DeleteShop") != 0 {
		t.Fatalf("delete should not reach the platform")
	}
}

func TestConsole_DeleteShopRequiresConfirmation(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodDelete, "/api/shops/10", tok, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = e.do(t, http.MethodDelete, "/api/shops/10?confirm=true", tok, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := e.store.Shop("10"); ok {
		t.Fatalf("shop 10 should be gone from the store")
	}
	u, _ := e.store.User("2")
	if u.ShopID != nil {
		t.Fatalf("barber 2 should be released, got %v", *u.ShopID)
	}
}

func TestConsole_DeleteShopPlatformUnavailable(t *testing.T) {
	e := newEnv(t)
	e.fake.Errors["DeleteShop"] = fmt.Errorf("dial tcp: %w", remote.ErrUnavailable)

	w := e.do(t, http.MethodDelete, "/api/shops/10?confirm=true", token(t, 1, "owner"), nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := decode[httperr.HTTPError](t, w).Code; got != "platform_unavailable" {
		t.Fatalf("unexpected error code %q", got)
	}
	if _, ok := e.store.Shop("10"); !ok {
		t.Fatalf("shop 10 should stay in the store")
	}
}

func TestConsole_LinksAndQRCode(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodGet, "/api/shops/10/links", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	l := decode[map[string]string](t, w)
	if !strings.Contains(l["directions"], "-23.5") {
		t.Fatalf("directions should use coordinates, got %q", l["directions"])
	}
	if l["whatsapp"] != "https://wa.me/18095551234" {
		t.Fatalf("unexpected whatsapp link %q", l["whatsapp"])
	}

	w = e.do(t, http.MethodGet, "/api/shops/10/links/whatsapp/qr", tok, nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected png, got %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("body is not a png")
	}

	w = e.do(t, http.MethodGet, "/api/shops/10/links/telegram/qr", tok, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", w.Code)
	}
}

func TestConsole_ShopSheet(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/shops/10/sheet", token(t, 1, "owner"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a pdf")
	}
}

func TestConsole_ServicesOfShop(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/shops/10/services", token(t, 1, "owner"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[struct {
		Data  []barbershop.Service `json:"data"`
		Total int                  `json:"total"`
	}](t, w)
	if resp.Total != 2 {
		t.Fatalf("expected general + exclusive services, got %+v", resp.Data)
	}
	for _, s := range resp.Data {
		if s.ID == "s20" {
			t.Fatalf("service of another shop leaked")
		}
	}
}

func TestConsole_CreateServiceValidation(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodPost, "/api/shops/10/services", tok, map[string]any{"name": " "})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	fields := decode[httperr.HTTPError](t, w).Fields
	for _, k := range []string{"name", "price", "duration_min"} {
		if fields[k] == "" {
			t.Fatalf("missing field error for %s: %v", k, fields)
		}
	}
	if e.fake.Count("CreateService") != 0 {
		t.Fatalf("invalid service should not reach the platform")
	}

	w = e.do(t, http.MethodPost, "/api/shops/10/services", tok, map[string]any{"name": "Corte", "duration_min": 10})
	fields = decode[httperr.HTTPError](t, w).Fields
	if w.Code != http.StatusUnprocessableEntity || len(fields) != 1 || fields["price"] == "" {
		t.Fatalf("expected only a price error, got %d %v", w.Code, fields)
	}

	w = e.do(t, http.MethodPost, "/api/shops/10/services", tok, map[string]any{"name": "Corte", "price": "caro"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body should be 400, got %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/api/shops/10/services", tok, map[string]any{
		"name": "Sobrancelha", "price": 15, "duration_min": 10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(e.store.Snapshot().Services) != 4 {
		t.Fatalf("new service should be in the store")
	}
}

func TestConsole_CreateServicePassesPlatformRejection(t *testing.T) {
	e := newEnv(t)
	e.fake.Errors["CreateService"] = &remote.Error{Status: http.StatusConflict, Code: "duplicate_service", Message: "Serviço já existe."}

	w := e.do(t, http.MethodPost, "/api/shops/10/services", token(t, 1, "owner"), map[string]any{
		"name": "Corte", "price": 30, "duration_min": 30,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if got := decode[httperr.HTTPError](t, w).Code; got != "duplicate_service" {
		t.Fatalf("unexpected error code %q", got)
	}
}

func TestConsole_BarberServicesSession(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodPost, "/api/shops/10/barber-services/toggle", tok, map[string]string{
		"barber_id": "6", "service_id": "s1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("barber of another shop: expected 400, got %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/api/shops/10/barber-services/toggle", tok, map[string]string{
		"barber_id": "2", "service_id": "s10",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPut, "/api/shops/10/barber-services", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if e.fake.Count("SaveBarberServicesForShop") != 1 {
		t.Fatalf("expected one platform save")
	}
	if got := e.store.Snapshot().BarberServices["2"]; !barbershop.ContainsID(got, "s10") {
		t.Fatalf("mapping not applied, got %v", got)
	}
}

func TestConsole_FormValidationThenSubmit(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodPost, "/api/forms", tok, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	form := decode[shopform.Form](t, w)
	if form.RequiresOwnerAccount {
		t.Fatalf("owner with a shop should not need a new account")
	}

	w = e.do(t, http.MethodPost, "/api/forms/"+form.ID+"/submit", tok, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if fields := decode[httperr.HTTPError](t, w).Fields; fields["name"] == "" || fields["location"] == "" {
		t.Fatalf("missing field errors: %v", fields)
	}

	w = e.do(t, http.MethodPatch, "/api/forms/"+form.ID, tok, map[string]string{
		"name": "Sul", "address": "Rua B, 20", "city": "Cidade",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = e.do(t, http.MethodPost, "/api/forms/"+form.ID+"/location/capture", tok, map[string]string{"permission": "granted"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/forms/"+form.ID+"/submit", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if e.fake.Count("CreateShop") != 1 {
		t.Fatalf("expected one create call")
	}

	shop := decode[barbershop.Shop](t, w)
	stored, ok := e.store.Shop(shop.ID)
	if !ok || stored.OwnerID == nil || *stored.OwnerID != "1" {
		t.Fatalf("new shop should belong to the actor, got %+v", stored)
	}

	w = e.do(t, http.MethodGet, "/api/forms/"+form.ID, tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("form should be closed after submit, got %d", w.Code)
	}
}

func TestConsole_FormOfAnotherActor(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/forms", token(t, 1, "owner"), map[string]string{"shop_id": "10"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	form := decode[shopform.Form](t, w)

	w = e.do(t, http.MethodGet, "/api/forms/"+form.ID, token(t, 5, "owner"), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestConsole_PreviewOnlyForFormOwner(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodPost, "/api/forms", tok, nil)
	form := decode[shopform.Form](t, w)

	w = e.do(t, http.MethodGet, "/api/forms/"+form.ID+"/preview", tok, nil)
	if got := decode[httperr.HTTPError](t, w).Code; w.Code != http.StatusNotFound || got != "preview_not_found" {
		t.Fatalf("expected preview_not_found before staging, got %d %q", w.Code, got)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="foto.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(pngBuf.Bytes())
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/forms/"+form.ID+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("stage: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	staged := decode[struct {
		PreviewURL string `json:"preview_url"`
	}](t, w)
	if staged.PreviewURL != "/api/forms/"+form.ID+"/preview" {
		t.Fatalf("unexpected preview url %q", staged.PreviewURL)
	}

	w = e.do(t, http.MethodGet, staged.PreviewURL, tok, nil)
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), pngBuf.Bytes()) {
		t.Fatalf("owner should read the preview, got %d", w.Code)
	}

	w = e.do(t, http.MethodGet, staged.PreviewURL, token(t, 5, "owner"), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("another actor must not read the preview, got %d", w.Code)
	}
}

func TestConsole_CaptureLocation(t *testing.T) {
	e := newEnv(t)
	tok := token(t, 1, "owner")

	w := e.do(t, http.MethodPost, "/api/forms", tok, nil)
	form := decode[shopform.Form](t, w)

	w = e.do(t, http.MethodPost, "/api/forms/"+form.ID+"/location/capture", tok, map[string]string{"permission": "denied"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if got := decode[httperr.HTTPError](t, w).Code; got != "location_permission_denied" {
		t.Fatalf("unexpected error code %q", got)
	}
	if e.locator.calls != 0 {
		t.Fatalf("denied permission should not query the locator")
	}

	e.locator.fail = 1
	w = e.do(t, http.MethodPost, "/api/forms/"+form.ID+"/location/capture", tok, map[string]string{"permission": "granted"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[struct {
		Form     shopform.Form `json:"form"`
		Attempts int           `json:"attempts"`
	}](t, w)
	if resp.Attempts != 2 {
		t.Fatalf("expected relaxed retry, got %d attempts", resp.Attempts)
	}
	if resp.Form.Fields.Latitude != "-23.550520" {
		t.Fatalf("unexpected latitude %q", resp.Form.Fields.Latitude)
	}
}

func TestConsole_NotificationsAreScopedToActor(t *testing.T) {
	e := newEnv(t)
	ana := token(t, 1, "owner")
	edu := token(t, 5, "owner")

	if w := e.do(t, http.MethodDelete, "/api/shops/10?confirm=true", ana, nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	type list struct {
		Data  []state.Notification `json:"data"`
		Total int                  `json:"total"`
	}

	// edu não vê nem drena o aviso da ana
	w := e.do(t, http.MethodGet, "/api/notifications?drain=true", edu, nil)
	if got := decode[list](t, w); got.Total != 0 {
		t.Fatalf("other owner should see nothing, got %+v", got.Data)
	}

	w = e.do(t, http.MethodGet, "/api/notifications", ana, nil)
	got := decode[list](t, w)
	if got.Total != 1 || !strings.Contains(got.Data[0].Message, "Centro") {
		t.Fatalf("actor should keep its notification, got %+v", got.Data)
	}
}

func TestConsole_NotificationStream(t *testing.T) {
	e := newEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/stream?access_token=" + token(t, 1, "owner")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// a inscrição acontece depois do upgrade; publica até o cliente receber
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				e.store.Notify("5", state.SeverityInfo, "para outro")
				e.store.Notify("1", state.SeverityInfo, "olá")
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var n state.Notification
	if err := conn.ReadJSON(&n); err != nil {
		t.Fatalf("read: %v", err)
	}
	if n.Message != "olá" || n.Severity != state.SeverityInfo {
		t.Fatalf("unexpected notification %+v", n)
	}
}
