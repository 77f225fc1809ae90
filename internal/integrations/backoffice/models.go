package backoffice

// BookingNotification уведомление о новом бронировании для персонала
type BookingNotification struct {
	BookingID     int64    `json:"booking_id"`
	ResourceIDs   []string `json:"resource_ids"`
	StartDateTime string   `json:"start_date_time"`
	EndDateTime   string   `json:"end_date_time"`
	DurationHours int      `json:"duration_hours"`
	Status        string   `json:"status"`
	TotalPrice    float64  `json:"total_price"`
	CustomerName  string   `json:"customer_name"`
	CustomerPhone *string  `json:"customer_phone,omitempty"`
}
