package store

import (
	"encoding/json"
	"strconv"
	"time"

	"outliner-cli/internal/model"

	"github.com/cespare/xxhash/v2"
)

// contentHash fingerprints everything a save would change, ignoring UpdatedAt.
func contentHash(a model.Article) (string, error) {
	a.UpdatedAt = time.Time{}
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16), nil
}
