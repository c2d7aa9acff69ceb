package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды в transport/web/v1)
var (
	ErrBadParams        = errors.New("bad_params")        // 400: пустое имя, traversal, кривой id
	ErrUnsupportedType  = errors.New("unsupported_type")  // 400: MIME вне allow-list
	ErrAlreadyExists    = errors.New("already_exists")    // 400: папка с таким путём уже есть
	ErrUnauth           = errors.New("unauthorized")      // 401
	ErrForbidden        = errors.New("forbidden")         // 403: не владелец / нет гранта / плохой share-токен
	ErrNotFound         = errors.New("not_found")         // 404
	ErrMethodNotAllowed = errors.New("method_not_allowed")// 405
	ErrUnexpected       = errors.New("unexpected")        // 500

	// Ошибки связки «реестр ↔ физическое хранилище»
	ErrStorage        = errors.New("storage_failure")  // 500: I/O физического хранилища
	ErrNotFoundOnDisk = errors.New("not_found_on_disk")// 500: реестр ссылается на отсутствующий объект
	// Самый серьёзный класс: физический шаг прошёл, запись в реестр — нет.
	// Требует пасса сверки; физическое состояние считается истиной.
	ErrInconsistent = errors.New("inconsistent")
)

// Коды ошибок для конверта ответа
const (
	ErrCodeBadParams        = 1000
	ErrCodeUnauth           = 1001
	ErrCodeForbidden        = 1003
	ErrCodeNotFound         = 1004
	ErrCodeMethodNotAllowed = 1005
	ErrCodeUnexpected       = 1050
	ErrCodeStorage          = 1051
	ErrCodeInconsistent     = 1052
)
