package clock

import "time"

// Real текущее время в заданном часовом поясе
type Real struct {
	loc *time.Location
}

// NewReal создает часы. nil означает UTC.
func NewReal(loc *time.Location) *Real {
	if loc == nil {
		loc = time.UTC
	}
	return &Real{loc: loc}
}

// Now возвращает текущее время
func (c *Real) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed часы с зафиксированным временем (для тестов)
type Fixed struct {
	T time.Time
}

// Now возвращает зафиксированное время
func (c Fixed) Now() time.Time {
	return c.T
}
