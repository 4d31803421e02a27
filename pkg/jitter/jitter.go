// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы клиенты, упавшие одновременно, не переподключались синхронно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter задаёт стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает d с добавленным джиттером. Результат лежит в диапазоне [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	return withRand(d, factor, rand.Float64)
}

// ExponentialBackoff возвращает задержку перед попыткой attempt (с нуля):
// base удваивается на каждой попытке, но не превышает max, затем добавляется джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	return Duration(backoff(base, max, attempt), factor)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}

	if d > max {
		return max
	}
	return d
}

func withRand(d time.Duration, factor float64, float func() float64) time.Duration {
	if factor <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(float()*factor*float64(d))
}
