package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
)

// ParseQueryIDs reads a comma separated list of positive integer ids.
// Repeated keys are merged. An absent key yields nil.
func ParseQueryIDs(r *http.Request, key string, maxItems int) ([]int64, error) {
	var ids []int64
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			value, err := strconv.ParseInt(part, 10, 64)
			if err != nil || value <= 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must list positive ids").WithDetails(map[string]any{"field": key, "value": part})
			}
			ids = append(ids, value)
		}
	}
	if maxItems > 0 && len(ids) > maxItems {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many ids").WithDetails(map[string]any{"field": key, "max": maxItems})
	}
	return ids, nil
}
