package domain

import (
	"regexp"
	"strings"
)

var (
	loginRe = regexp.MustCompile(`^[A-Za-z0-9]{8,}$`)
	// Пароль: мин 8, >=2 буквы в разных регистрах, >=1 цифра, >=1 символ
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
	symRe   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func ValidLogin(s string) bool {
	return loginRe.MatchString(s)
}

func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s) && symRe.MatchString(s)
}

// ValidPathSegment — проверка одного сегмента пути (имя папки или файла).
// Отсекает пустоту, абсолютные пути и любые попытки выйти из неймспейса.
func ValidPathSegment(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	if s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, `/\`) {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	// NUL ломает и файловые системы, и объектные ключи
	return !strings.ContainsRune(s, 0)
}
