package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID
type FileID = uuid.UUID
type FolderID = uuid.UUID

// Пользователь
type User struct {
	ID        UserID    `json:"id"`
	Login     string    `json:"login"`
	PassHash  []byte    `json:"-"` // никогда не отдаём наружу
	CreatedAt time.Time `json:"created_at"`
}

// Режим доступа к файлу
type AccessType string

const (
	AccessPrivate    AccessType = "private"    // только владелец
	AccessPublic     AccessType = "public"     // читают все, включая анонимов
	AccessRestricted AccessType = "restricted" // владелец, грантополучатели и держатели токена
)

// ValidAccessType проверяет значение, пришедшее извне.
func ValidAccessType(s string) bool {
	switch AccessType(s) {
	case AccessPrivate, AccessPublic, AccessRestricted:
		return true
	}
	return false
}

// Папка пользователя. Path всегда начинается с неймспейса владельца:
// "{owner_id}/{name}" — имена папок разных пользователей не пересекаются.
type Folder struct {
	ID        FolderID  `json:"id"`
	OwnerID   UserID    `json:"owner_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created"`
}

// Метаданные файла (без тела). Инвариант: пока запись существует,
// StoragePath указывает на живой объект в физическом хранилище.
type File struct {
	ID        FileID     `json:"id"`
	OwnerID   UserID     `json:"owner_id"`
	Name      string     `json:"name"` // отображаемое имя; имя на диске генерируется
	MIME      string     `json:"mime"`
	SizeBytes int64      `json:"size_bytes"`
	FolderID  *FolderID  `json:"folder_id,omitempty"` // nil — корень неймспейса владельца
	Access    AccessType `json:"access"`
	CreatedAt time.Time  `json:"created"`
	UpdatedAt time.Time  `json:"updated"`

	// Кому выдан доступ на чтение (актуально только для restricted)
	SharedWith []UserID `json:"shared_with,omitempty"`

	// Технические поля
	StoragePath string `json:"-"` // "{owner_id}/{folder?}/{generated-name}"
	ShareToken  string `json:"-"` // непустой ⇔ Access == restricted
}

// SharedWithUser сообщает, есть ли у пользователя явный грант на чтение.
func (f *File) SharedWithUser(id UserID) bool {
	for _, u := range f.SharedWith {
		if u == id {
			return true
		}
	}
	return false
}
