package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/barber-manager/internal/cache"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// cache guarda as respostas por até um dia; MaxAge decide se servem
const cacheTTL = 24 * time.Hour

// Geocoder resolve o endereço do formulário numa API compatível com Nominatim.
// Alta precisão usa o endereço completo; relaxada, só a cidade.
type Geocoder struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     cache.Store
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewGeocoder limita a 1 requisição/s, a política pública do Nominatim.
func NewGeocoder(baseURL, userAgent string, c cache.Store) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Geocoder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{},
		cache:     c,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		now:       time.Now,
	}
}

func (g *Geocoder) text(q Query, opts Options) string {
	parts := []string{q.City}
	if opts.HighAccuracy {
		parts = []string{q.Address, q.Sector, q.City}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func (g *Geocoder) Locate(ctx context.Context, q Query, opts Options) (Position, error) {
	text := g.text(q, opts)
	if text == "" {
		return Position{}, ErrPositionUnavailable
	}
	key := "geocode:" + strings.ToLower(text)

	if opts.MaxAge > 0 && g.cache != nil {
		var p Position
		if err := g.cache.Get(ctx, key, &p); err == nil && g.now().Sub(p.At) <= opts.MaxAge {
			return p, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	p, err := g.fetch(ctx, text)
	if err != nil {
		return Position{}, err
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, key, p, cacheTTL); err != nil {
			slog.Warn("geocode cache write failed", "error", err)
		}
	}
	return p, nil
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *Geocoder) fetch(ctx context.Context, text string) (Position, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Position{}, ErrTimeout
	}

	v := url.Values{}
	v.Set("q", text)
	v.Set("format", "json")
	v.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+v.Encode(), nil)
	if err != nil {
		return Position{}, err
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Position{}, ErrPermissionDenied
	case resp.StatusCode != http.StatusOK:
		return Position{}, fmt.Errorf("%w: status %d", ErrPositionUnavailable, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	if len(places) == 0 {
		return Position{}, ErrPositionUnavailable
	}

	lat, err1 := strconv.ParseFloat(places[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(places[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return Position{}, ErrPositionUnavailable
	}

	return Position{Latitude: lat, Longitude: lon, At: g.now()}, nil
}

var _ Locator = (*Geocoder)(nil)
