// Package dateutil содержит вспомогательные функции для работы с датами:
// подсчёт оставшихся дней пробного периода и проверку смены месяца
// для сброса месячных счётчиков.
package dateutil

import "time"

// DaysUntil возвращает количество полных или неполных дней от now до deadline,
// округляя вверх. Если deadline не позже now, возвращает 0.
func DaysUntil(now, deadline time.Time) int {
	if !deadline.After(now) {
		return 0
	}
	diff := deadline.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// SameMonth сообщает, относятся ли обе даты к одному календарному месяцу.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
