// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает атрибут лога с ключом "error" и текстом ошибки,
// чтобы все сервисы выводили ошибки одним и тем же полем.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
