package models

import "time"

// Статусы клиента в воронке продаж.
const (
	ClientStatusNew           = "new"
	ClientStatusProcessing    = "processing"
	ClientStatusInterested    = "interested"
	ClientStatusPaid          = "paid"
	ClientStatusParticipating = "participating"
	ClientStatusCompleted     = "completed"
	ClientStatusNotWorked     = "not_worked"
)

// Источники лидов.
const (
	SourceInstagram     = "instagram"
	SourceTiktok        = "tiktok"
	SourceAdvertisement = "advertisement"
	SourceWhatsapp      = "whatsapp"
	SourceDirect        = "direct"
	SourceOther         = "other"
)

// Client представляет лида/клиента. ManagerID может быть nil —
// клиент не закреплен ни за одним менеджером.
type Client struct {
	ID         int       `json:"id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Age        *int      `json:"age,omitempty"`
	ClassGrade string    `json:"class_grade,omitempty"`
	ManagerID  *int      `json:"manager_id,omitempty"`
	Status     string    `json:"status"`
	Comment    string    `json:"comment,omitempty"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// ManagerName заполняется при чтении join-ом, в базе не хранится.
	ManagerName string `json:"manager_name,omitempty"`
}

// DummyClient используется для приёма данных при создании клиента.
// Статус и источник необязательны: по умолчанию new и other.
type DummyClient struct {
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Age        *int   `json:"age,omitempty" validate:"omitempty,gt=0"`
	ClassGrade string `json:"class_grade,omitempty"`
	ManagerID  *int   `json:"manager_id,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=new processing interested paid participating completed not_worked"`
	Comment    string `json:"comment,omitempty"`
	Source     string `json:"source,omitempty" validate:"omitempty,oneof=instagram tiktok advertisement whatsapp direct other"`
}

// UpdateClient — частичное обновление клиента. nil — поле не передано.
// ManagerID == 0 трактуется как снятие менеджера (NULL в базе).
type UpdateClient struct {
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Age        *int    `json:"age,omitempty" validate:"omitempty,gt=0"`
	ClassGrade *string `json:"class_grade,omitempty"`
	ManagerID  *int    `json:"manager_id,omitempty"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=new processing interested paid participating completed not_worked"`
	Comment    *string `json:"comment,omitempty"`
	Source     *string `json:"source,omitempty" validate:"omitempty,oneof=instagram tiktok advertisement whatsapp direct other"`
}

// ClientFilter — параметры фильтрации и пагинации списка клиентов.
type ClientFilter struct {
	Status    string
	ManagerID *int
	Source    string
	Search    string
	Page      int
	Limit     int
}

// ClientPage — страница списка клиентов с данными пагинации.
type ClientPage struct {
	Clients    []*Client `json:"clients"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
