package analytics

// DateLayout is the layout of Daily.Date
const DateLayout = "2006-01-02"

// Daily is one business's counters for one calendar day
type Daily struct {
	ID                 string  `json:"id"`
	BusinessID         string  `json:"business_id"`
	Date               string  `json:"date"`
	RemindersSent      int     `json:"reminders_sent"`
	RemindersDelivered int     `json:"reminders_delivered"`
	Confirmations      int     `json:"confirmations"`
	Cancellations      int     `json:"cancellations"`
	NoShows            int     `json:"no_shows"`
	SMSCost            float64 `json:"sms_cost"`
}
