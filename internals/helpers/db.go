// file: internals/helpers/db.go
package helper

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// IsDuplicateKey: deteksi pelanggaran unique constraint (SQLSTATE 23505).
// Prefer typed pq.Error; fallback string sniffing untuk driver lain.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
