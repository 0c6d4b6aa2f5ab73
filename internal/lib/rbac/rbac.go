// Package rbac реализует статическую матрицу прав доступа: роль сотрудника
// отображается на разрешенные действия над ресурсами. Матрица загружается
// один раз при старте процесса и не изменяется.
package rbac

import "github.com/magabrotheeeer/olympiad-crm/internal/models"

// Ресурсы, на которые выдаются права.
const (
	ResourceClients   = "clients"
	ResourceEmployees = "employees"
	ResourceOlympiads = "olympiads"
	ResourceReminders = "reminders"
	ResourceReports   = "reports"
)

// Действия над ресурсами. Create выделено отдельно от Write: создание
// олимпиад разрешено более узкому кругу, чем их изменение.
const (
	ActionRead     = "read"
	ActionWrite    = "write"
	ActionCreate   = "create"
	ActionDelete   = "delete"
	ActionRegister = "register" // создание учетных записей, только employees
)

type rule struct {
	resource string
	action   string
}

// matrix — таблица (ресурс, действие) → роли. Таймер в матрице отсутствует:
// он доступен любому аутентифицированному активному сотруднику.
var matrix = map[rule][]string{
	{ResourceClients, ActionRead}:       {models.RoleDirector, models.RoleViceDirector, models.RoleManager, models.RoleMarketer},
	{ResourceClients, ActionWrite}:      {models.RoleDirector, models.RoleViceDirector, models.RoleManager, models.RoleMarketer},
	{ResourceClients, ActionDelete}:     {models.RoleDirector, models.RoleViceDirector},
	{ResourceEmployees, ActionRead}:     {models.RoleDirector, models.RoleViceDirector},
	{ResourceEmployees, ActionWrite}:    {models.RoleDirector, models.RoleViceDirector},
	{ResourceEmployees, ActionDelete}:   {models.RoleDirector},
	{ResourceEmployees, ActionRegister}: {models.RoleDirector},
	{ResourceOlympiads, ActionRead}:     {models.RoleDirector, models.RoleViceDirector, models.RoleManager},
	{ResourceOlympiads, ActionWrite}:    {models.RoleDirector, models.RoleViceDirector, models.RoleManager},
	{ResourceOlympiads, ActionCreate}:   {models.RoleDirector, models.RoleViceDirector},
	{ResourceOlympiads, ActionDelete}:   {models.RoleDirector, models.RoleViceDirector},
	{ResourceReminders, ActionRead}:     {models.RoleDirector, models.RoleViceDirector, models.RoleManager},
	{ResourceReminders, ActionWrite}:    {models.RoleDirector, models.RoleViceDirector, models.RoleManager},
	{ResourceReminders, ActionDelete}:   {models.RoleDirector, models.RoleViceDirector, models.RoleManager},
	{ResourceReports, ActionRead}:       {models.RoleDirector, models.RoleViceDirector},
}

// Permit сообщает, разрешено ли роли выполнить действие над ресурсом.
// Неизвестные роль, ресурс или действие запрещены.
func Permit(role, resource, action string) bool {
	roles, ok := matrix[rule{resource, action}]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
