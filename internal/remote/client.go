package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

// Client fala JSON com a plataforma usando o token do usuário do console.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WithToken devolve uma cópia autenticada com o bearer informado.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// --------------------------------------------------
// Leituras
// --------------------------------------------------

func (c *Client) ListShops(ctx context.Context) ([]barbershop.Shop, error) {
	var out []barbershop.Shop
	if err := c.doJSON(ctx, http.MethodGet, "/shops", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]barbershop.User, error) {
	var out []barbershop.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListServices(ctx context.Context) ([]barbershop.Service, error) {
	var out []barbershop.Service
	if err := c.doJSON(ctx, http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListBarberServices(ctx context.Context) (barbershop.BarberServices, error) {
	out := barbershop.BarberServices{}
	if err := c.doJSON(ctx, http.MethodGet, "/barber-services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Shop
// --------------------------------------------------

func (c *Client) CreateShop(ctx context.Context, payload barbershop.ShopPayload) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/shops", payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) UpdateShop(ctx context.Context, id barbershop.ID, payload barbershop.ShopPayload) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPut, "/shops/"+url.PathEscape(id.String()), payload, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) DeleteShop(ctx context.Context, id barbershop.ID) error {
	return c.doJSON(ctx, http.MethodDelete, "/shops/"+url.PathEscape(id.String()), nil, nil)
}

// --------------------------------------------------
// Upload / barber services / users / services
// --------------------------------------------------

func (c *Client) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out barbershop.UploadedImage
	if err := c.do(ctx, http.MethodPost, "/uploads/image", mw.FormDataContentType(), &buf, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload image: empty url in response")
	}
	return out.URL, nil
}

func (c *Client) SaveBarberServicesForShop(
	ctx context.Context,
	shopID barbershop.ID,
	mapping barbershop.BarberServices,
) error {
	body := map[string]any{"mapping": mapping}
	path := "/shops/" + url.PathEscape(shopID.String()) + "/barber-services"
	return c.doJSON(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id barbershop.ID, patch barbershop.UserPatch) (barbershop.User, error) {
	var out barbershop.User
	err := c.doJSON(ctx, http.MethodPatch, "/users/"+url.PathEscape(id.String()), patch, &out)
	return out, err
}

func (c *Client) CreateService(ctx context.Context, payload barbershop.ServicePayload) (barbershop.Service, error) {
	var out barbershop.Service
	err := c.doJSON(ctx, http.MethodPost, "/services", payload, &out)
	return out, err
}

func (c *Client) DeleteService(ctx context.Context, id barbershop.ID) error {
	return c.doJSON(ctx, http.MethodDelete, "/services/"+url.PathEscape(id.String()), nil, nil)
}

// --------------------------------------------------
// Transporte
// --------------------------------------------------

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := &Error{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, perr)
		if perr.Code == "" {
			perr.Code = http.StatusText(resp.StatusCode)
		}
		return perr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if rm, ok := out.(*json.RawMessage); ok {
		*rm = append((*rm)[:0], raw...)
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

var _ API = (*Client)(nil)
