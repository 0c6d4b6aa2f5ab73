package models

import "time"

// Действия, фиксируемые в истории клиента.
const (
	HistoryActionCreated       = "created"
	HistoryActionStatusChanged = "status_changed"
	HistoryActionCommentAdded  = "comment_added"
	HistoryActionAssigned      = "assigned_to_manager"
	HistoryActionPhoneUpdated  = "phone_updated"
	HistoryActionEmailUpdated  = "email_updated"
	HistoryActionOther         = "other"
)

// ClientHistory — запись журнала изменений клиента. Журнал только на
// добавление: записи никогда не изменяются и не удаляются по отдельности.
// EmployeeID может быть nil, если сотрудник-автор был удален.
type ClientHistory struct {
	ID          int       `json:"id"`
	ClientID    int       `json:"client_id"`
	EmployeeID  *int      `json:"employee_id,omitempty"`
	Action      string    `json:"action"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// EmployeeName заполняется join-ом при чтении.
	EmployeeName string `json:"employee_name,omitempty"`
}
