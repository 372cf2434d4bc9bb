package models

// DailySpending is the rolling counter of amounts handed to the UPI app
// today. A stored date other than today means the counter is zero.
type DailySpending struct {
	Date   Date  `json:"date"`
	Amount int64 `json:"amount"`
}

// On returns the counter value for today.
func (d DailySpending) On(today Date) int64 {
	if d.Date != today {
		return 0
	}
	return d.Amount
}
