// Package epoch нормализует epoch-метки времени начала записи на программу.
//
// Исторически разные писатели сохраняли start_date то в секундах, то в
// миллисекундах. Канонической единицей для новых записей являются секунды,
// а при чтении единица определяется эвристикой по порядку величины:
// значения по модулю больше 10^11 трактуются как миллисекунды.
// Граница 10^11 секунд соответствует пятому тысячелетию, так что
// коллизий с реальными датами не возникает.
package epoch

import "time"

// msThreshold граница между секундами и миллисекундами.
const msThreshold = int64(1e11)

// Time преобразует epoch-значение неизвестной единицы в time.Time (UTC).
// Никогда не возвращает ошибку: некорректные значения интерпретируются
// по той же эвристике, что и корректные.
func Time(v int64) time.Time {
	if v > msThreshold || v < -msThreshold {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// Seconds возвращает каноническое epoch-значение (секунды) для записи в хранилище.
func Seconds(t time.Time) int64 {
	return t.Unix()
}
