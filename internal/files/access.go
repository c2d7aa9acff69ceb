package files

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/srirampandi55/Cloudify/internal/domain"
)

// CheckAccess решает, может ли вызывающий читать файл.
// caller == nil — анонимный запрос. Порядок: владелец, затем правило режима.
// Состояние никогда не мутируется.
func CheckAccess(f *domain.File, caller *domain.UserID, token string) error {
	if caller != nil && *caller == f.OwnerID {
		return nil
	}
	switch f.Access {
	case domain.AccessPublic:
		return nil
	case domain.AccessRestricted:
		if caller != nil && f.SharedWithUser(*caller) {
			return nil
		}
		if token != "" && tokenMatches(f.ShareToken, token) {
			return nil
		}
		return domain.ErrForbidden
	default: // private
		return domain.ErrForbidden
	}
}

// NewShareToken выпускает новый токен-капабилити: 16 случайных байт в hex.
// Один активный токен на файл, перевыпуск затирает предыдущий.
func NewShareToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("share token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func tokenMatches(stored, presented string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
