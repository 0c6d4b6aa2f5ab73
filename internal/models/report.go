package models

// ClientsReport — сводка по базе клиентов.
type ClientsReport struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	BySource  map[string]int `json:"by_source"`
	ByManager map[string]int `json:"by_manager"`
}

// OlympiadSummary — строка отчета по одной олимпиаде.
type OlympiadSummary struct {
	OlympiadID    int     `json:"olympiad_id"`
	Name          string  `json:"name"`
	Subject       string  `json:"subject"`
	Status        string  `json:"status"`
	Registrations int     `json:"registrations"`
	PaidCount     int     `json:"paid_count"`
	Revenue       float64 `json:"revenue"`
}

// OlympiadsReport — сводка по олимпиадам и выручке.
type OlympiadsReport struct {
	Total        int                `json:"total"`
	BySubject    map[string]int     `json:"by_subject"`
	ByStatus     map[string]int     `json:"by_status"`
	TotalRevenue float64            `json:"total_revenue"`
	Olympiads    []*OlympiadSummary `json:"olympiads"`
}

// ManagerSummary — строка отчета по одному менеджеру. Конверсия считается
// как доля клиентов со статусами paid/participating/completed.
type ManagerSummary struct {
	ManagerID      int     `json:"manager_id"`
	FullName       string  `json:"full_name"`
	ClientsTotal   int     `json:"clients_total"`
	ClientsPaid    int     `json:"clients_paid"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ManagersReport — сводка по работе менеджеров.
type ManagersReport struct {
	Managers []*ManagerSummary `json:"managers"`
}
