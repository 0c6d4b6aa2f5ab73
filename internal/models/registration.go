package models

import "time"

// Статусы регистрации клиента на олимпиаду.
const (
	RegistrationStatusRegistered  = "registered"
	RegistrationStatusPaid        = "paid"
	RegistrationStatusCompleted   = "completed"
	RegistrationStatusCertificate = "certificate_received"
	RegistrationStatusCancelled   = "cancelled"
)

// OlympiadRegistration — запись о регистрации клиента на олимпиаду.
// Пара (ClientID, OlympiadID) уникальна. Правило оплаты: установка
// PaidAmount > 0 при пустом PaidAt автоматически проставляет PaidAt и
// переводит статус в paid, перекрывая явно переданный статус.
type OlympiadRegistration struct {
	ID             int        `json:"id"`
	ClientID       int        `json:"client_id"`
	OlympiadID     int        `json:"olympiad_id"`
	Status         string     `json:"status"`
	PaidAmount     float64    `json:"paid_amount"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	Score          *int       `json:"score,omitempty"`
	CertificateURL string     `json:"certificate_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// ClientName заполняется join-ом при чтении.
	ClientName string `json:"client_name,omitempty"`
}

// DummyRegistration — тело запроса на регистрацию клиента.
type DummyRegistration struct {
	ClientID int `json:"client_id" validate:"required,gt=0"`
}

// UpdateRegistration — частичное обновление регистрации.
type UpdateRegistration struct {
	Status         *string  `json:"status,omitempty" validate:"omitempty,oneof=registered paid completed certificate_received cancelled"`
	PaidAmount     *float64 `json:"paid_amount,omitempty" validate:"omitempty,gte=0"`
	Score          *int     `json:"score,omitempty" validate:"omitempty,gte=0"`
	CertificateURL *string  `json:"certificate_url,omitempty"`
}
