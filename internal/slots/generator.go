package slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Generate возвращает слоты длительностью duration минут внутри интервала.
// Слоты идут с шагом duration от начала интервала, пока slotStart+duration <= End.
// Хвост короче duration отбрасывается.
// Последовательность ленивая и может перебираться повторно.
func Generate(interval domain.Interval, duration int) iter.Seq[domain.Slot] {
	return func(yield func(domain.Slot) bool) {
		if duration <= 0 {
			return
		}
		for start := interval.Start; start+duration <= interval.End; start += duration {
			from, err := types.FromMinutes(start)
			if err != nil {
				return
			}
			// Конец дня (24:00) не представим в HH:MM
			to, err := types.FromMinutes(start + duration)
			if err != nil {
				return
			}
			if !yield(domain.NewSlot(from, to)) {
				return
			}
		}
	}
}

// Contains проверяет, что t совпадает с началом одного из слотов
func Contains(interval domain.Interval, duration int, t types.TimeString) bool {
	for slot := range Generate(interval, duration) {
		if slot.StartTime == t {
			return true
		}
	}
	return false
}

// Started проверяет, что слот t на дату date уже начался к моменту now.
// now должен быть в часовом поясе отделения.
func Started(date time.Time, t types.TimeString, now time.Time) bool {
	if !domain.DateOnly(date).Equal(domain.DateOnly(now)) {
		return domain.DateOnly(date).Before(domain.DateOnly(now))
	}
	start, err := t.Minutes()
	if err != nil {
		return false
	}
	return start <= now.Hour()*60+now.Minute()
}
