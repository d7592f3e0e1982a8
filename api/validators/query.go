package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
)

// RequireQuery returns the trimmed values of keys, failing on the first blank one.
func RequireQuery(r *http.Request, keys ...string) ([]string, error) {
	query := r.URL.Query()
	values := make([]string, len(keys))
	missing := make([]string, 0)
	for i, key := range keys {
		values[i] = strings.TrimSpace(query.Get(key))
		if values[i] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing query parameters").WithDetails(map[string]any{"fields": missing})
	}
	return values, nil
}
