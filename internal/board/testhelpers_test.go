package board

import "time"

func julyAt(day, hour int) time.Time {
	return time.Date(2369, time.July, day, hour, 0, 0, 0, time.UTC)
}

// dailyRolls records one roll per day starting July 1st at midnight.
func dailyRolls(numbers ...int) []Roll {
	rolls := make([]Roll, 0, len(numbers))
	for i, number := range numbers {
		rolls = append(rolls, Roll{ID: int64(i + 1), Number: number, Embargo: julyAt(i+1, 0)})
	}
	return rolls
}
