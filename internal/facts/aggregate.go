package facts

// Summary is the aggregate state of a multi-day query.
type Summary struct {
	Loading     bool `json:"loading"`
	Available   int  `json:"available"`
	Unavailable int  `json:"unavailable"`
	Pending     int  `json:"pending"`
}

// Summarize counts results by status. Loading is true while any result is
// still pending; a failed day is terminal and never keeps it true.
func Summarize(results []FactResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusAvailable:
			s.Available++
		case StatusUnavailable:
			s.Unavailable++
		default:
			s.Pending++
		}
	}
	s.Loading = s.Pending > 0
	return s
}

// Zip pairs keys with their index-aligned results.
func Zip(keys []DateKey, results []FactResult) []DayFact {
	days := make([]DayFact, 0, len(keys))
	for i, k := range keys {
		r := Pending()
		if i < len(results) {
			r = results[i]
		}
		days = append(days, DayFact{Key: k, Result: r})
	}
	return days
}
