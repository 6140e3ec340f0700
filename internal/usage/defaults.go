package usage

import "time"

// The free tier allows 10 AI enhancements per rolling week.
func defaultUsage() Usage {
	return Usage{
		Plan:     "Starter",
		Limit:    10,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(7 * 24 * time.Hour),
	}
}
