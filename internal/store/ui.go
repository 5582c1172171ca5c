package store

import (
	"time"

	"github.com/google/uuid"
)

// OpenModal открывает модальное окно
func (s *Store) OpenModal(m Modal) {
	s.Update(func(st *State) { st.UI.Modals[m] = true })
}

// CloseModal закрывает модальное окно
func (s *Store) CloseModal(m Modal) {
	s.Update(func(st *State) { st.UI.Modals[m] = false })
}

// ToggleModal переключает модальное окно
func (s *Store) ToggleModal(m Modal) {
	s.Update(func(st *State) { st.UI.Modals[m] = !st.UI.Modals[m] })
}

// AddNotification добавляет уведомление и возвращает его идентификатор.
// При ненулевом duration уведомление удаляется по таймеру.
func (s *Store) AddNotification(kind, message string, duration time.Duration) string {
	id := uuid.NewString()
	s.Update(func(st *State) {
		st.UI.Notifications = append(st.UI.Notifications, Notification{
			ID:       id,
			Type:     kind,
			Message:  message,
			Duration: duration,
		})
	})
	if duration > 0 {
		time.AfterFunc(duration, func() { s.RemoveNotification(id) })
	}
	return id
}

// RemoveNotification удаляет уведомление
func (s *Store) RemoveNotification(id string) {
	s.Update(func(st *State) {
		kept := st.UI.Notifications[:0]
		for _, n := range st.UI.Notifications {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		st.UI.Notifications = kept
	})
}

// ClearNotifications удаляет все уведомления
func (s *Store) ClearNotifications() {
	s.Update(func(st *State) { st.UI.Notifications = []Notification{} })
}

// ToggleSidebar переключает боковую панель
func (s *Store) ToggleSidebar() {
	s.Update(func(st *State) { st.UI.SidebarOpen = !st.UI.SidebarOpen })
}

// SetSidebarOpen открывает или закрывает боковую панель
func (s *Store) SetSidebarOpen(open bool) {
	s.Update(func(st *State) { st.UI.SidebarOpen = open })
}

// SetLoading задает глобальный флаг загрузки
func (s *Store) SetLoading(loading bool) {
	s.Update(func(st *State) { st.UI.IsLoading = loading })
}

// SetError задает глобальную ошибку интерфейса
func (s *Store) SetError(msg string) {
	s.Update(func(st *State) { st.UI.Error = msg })
}

// ResetUI закрывает окна, очищает уведомления и ошибку
func (s *Store) ResetUI() {
	s.Update(func(st *State) {
		st.UI.Modals = closedModals()
		st.UI.Notifications = []Notification{}
		st.UI.Error = ""
	})
}
