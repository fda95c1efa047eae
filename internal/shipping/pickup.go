package shipping

import "github.com/shopspring/decimal"

// PickupLocation is a store pickup point offered as its own free method.
type PickupLocation struct {
	Name     string
	MethodID MethodID
	ImageURL string
}

// MethodImages maps method ids to logo URLs.
type MethodImages map[MethodID]string

// Lookup tries the exact id, then the base id.
func (m MethodImages) Lookup(id MethodID) (string, bool) {
	if url, ok := m[id]; ok && url != "" {
		return url, true
	}
	if url, ok := m[id.Base()]; ok && url != "" {
		return url, true
	}
	return "", false
}

// PickupRates quotes a zero-cost rate for every location whose method was not
// already quoted. The rates still pass through FilterRates like any other.
func PickupRates(locations []PickupLocation, quoted []Rate) []Rate {
	seen := make(map[MethodID]struct{}, len(quoted))
	for _, rate := range quoted {
		seen[rate.MethodID().Base()] = struct{}{}
	}
	out := make([]Rate, 0, len(locations))
	for _, loc := range locations {
		if loc.MethodID == "" {
			continue
		}
		if _, ok := seen[loc.MethodID.Base()]; ok {
			continue
		}
		seen[loc.MethodID.Base()] = struct{}{}
		out = append(out, Rate{Key: loc.MethodID.String(), Label: loc.Name, Cost: decimal.Zero})
	}
	return out
}
