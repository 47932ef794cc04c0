package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoUpdateFields signals an update request carrying nothing to change.
var ErrNoUpdateFields = errors.New("no fields to update")

// fieldChange is one column change in a partial update. Order matters:
// placeholder numbers follow slice position, so values bind positionally.
type fieldChange struct {
	Field string
	Value any
}

// buildPartialUpdate assembles the SET clause of a single-row UPDATE from a
// sparse change list. Field names are translated through fieldCols; a field
// missing from the map keeps its own name as the column name. The password
// field never reaches the column list: password changes go through the
// bcrypt path, not a raw column write. When no image field appears among the
// changes, a trailing assignment resets img_url to the default placeholder.
func buildPartialUpdate(changes []fieldChange, fieldCols map[string]string) (string, []any, error) {
	if len(changes) == 0 {
		return "", nil, ErrNoUpdateFields
	}

	var (
		assignments []string
		args        []any
		hasImage    bool
	)
	for _, change := range changes {
		if change.Field == "password" {
			continue
		}
		col := fieldCols[change.Field]
		if col == "" {
			col = change.Field
		}
		if change.Field == "imgUrl" || col == "img_url" {
			hasImage = true
		}
		args = append(args, change.Value)
		assignments = append(assignments, fmt.Sprintf("%q=$%d", col, len(args)))
	}
	if len(assignments) == 0 {
		return "", nil, ErrNoUpdateFields
	}

	if !hasImage {
		args = append(args, defaultProfileImageURL)
		assignments = append(assignments, fmt.Sprintf(`"img_url"=$%d`, len(args)))
	}

	return strings.Join(assignments, ", "), args, nil
}
