package domain

import (
	"context"
	"strconv"
)

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeyTokenJTI(jti string) string { return "jti:" + jti }

// Версия списка файлов владельца; инкремент на каждой мутации —
// выборочная инвалидация без pattern-delete.
func CacheKeyListVer(owner UserID) string { return "listver:" + owner.String() }
func CacheKeyList(owner UserID, ver int64) string {
	return "list:" + owner.String() + ":" + strconv.FormatInt(ver, 10)
}

// Простой k/v интерфейс. Реализация — Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	// Для инкрементируемых версий списков (выборочная инвалидация)
	Incr(ctx context.Context, key string) (int64, error)
	Ping(context.Context) error
	Close()
}
