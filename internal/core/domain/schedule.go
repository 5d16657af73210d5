package domain

import "time"

// DueDateInMonth returns the due date for the given month, clamping the
// configured day-of-month to the last day of that month (day 31 in February
// resolves to Feb 28/29, never to early March).
func DueDateInMonth(year int, month time.Month, dueDay int) Date {
	day := dueDay
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// NextInstallmentDueDate returns the next due date for the plan: this month
// if today's day-of-month has not yet reached the due day, otherwise next
// month. Month overflow rolls the year forward.
func NextInstallmentDueDate(p *InstallmentPlan, now time.Time) Date {
	year, month := now.Year(), now.Month()
	if now.Day() >= p.DueDay {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return DueDateInMonth(year, month, p.DueDay)
}

// FinalInstallmentDueDate returns the due date of the last remaining period,
// stepping month by month from the next due date with the same day clamping.
// It is therefore exactly the date of the count-th occurrence of the
// recurrence, so a COUNT bound and an UNTIL bound built from it agree.
func FinalInstallmentDueDate(p *InstallmentPlan, now time.Time) Date {
	next := NextInstallmentDueDate(p, now)
	year, month := next.Year(), next.Month()
	for i := 1; i < p.RemainingInstallments(); i++ {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return DueDateInMonth(year, month, p.DueDay)
}

// DaysUntil returns the whole-day difference between the date and now, both
// truncated to midnight. Negative means overdue, zero means due today.
func DaysUntil(d Date, now time.Time) int {
	return int(d.Time().Sub(DateOf(now).Time()).Hours() / 24)
}
