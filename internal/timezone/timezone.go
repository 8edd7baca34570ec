package timezone

import (
	"sync/atomic"
	"time"
)

const DefaultTimezone = "America/Sao_Paulo"

var current atomic.Pointer[time.Location]

// Set troca o fuso usado por Now. Nome inválido mantém o padrão.
func Set(tz string) {
	current.Store(Location(tz))
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Current() *time.Location {
	if loc := current.Load(); loc != nil {
		return loc
	}
	return Location(DefaultTimezone)
}

func Now() time.Time {
	return time.Now().In(Current())
}
