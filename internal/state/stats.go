package state

import (
	"github.com/BruksfildServices01/barber-manager/internal/domain/barbershop"
)

type Stats struct {
	Shops             int                   `json:"shops"`
	Barbers           int                   `json:"barbers"`
	AssignedBarbers   int                   `json:"assigned_barbers"`
	UnassignedBarbers int                   `json:"unassigned_barbers"`
	GeneralServices   int                   `json:"general_services"`
	ExclusiveServices int                   `json:"exclusive_services"`
	AveragePrice      float64               `json:"average_price"`
	BarbersPerShop    map[barbershop.ID]int `json:"barbers_per_shop"`
}

// ComputeStats agrega o snapshot. Vínculo segue a regra OR do resolver.
func ComputeStats(snap Snapshot) Stats {
	st := Stats{
		Shops:          len(snap.Shops),
		BarbersPerShop: make(map[barbershop.ID]int, len(snap.Shops)),
	}

	for _, u := range snap.Users {
		if barbershop.IsBarber(u) {
			st.Barbers++
		}
	}
	st.UnassignedBarbers = len(barbershop.UnassignedBarbers(snap.Shops, snap.Users))
	st.AssignedBarbers = st.Barbers - st.UnassignedBarbers

	for _, s := range snap.Shops {
		st.BarbersPerShop[s.ID] = len(barbershop.BarbersOf(s, snap.Users))
	}

	var total float64
	for _, svc := range snap.Services {
		if svc.IsGeneral() {
			st.GeneralServices++
		} else {
			st.ExclusiveServices++
		}
		total += svc.Price
	}
	if n := len(snap.Services); n > 0 {
		st.AveragePrice = total / float64(n)
	}

	return st
}
