package store

const (
	darkBackground = "#1a1a1a"
	darkText       = "#FFFFFF"
)

func (t *ThemeState) applyDarkMode(dark bool) {
	t.IsDarkMode = dark
	if dark {
		t.Colors.Background = darkBackground
		t.Colors.Text = darkText
		return
	}
	light := lightColors()
	t.Colors.Background = light.Background
	t.Colors.Text = light.Text
}

// ToggleDarkMode переключает темную тему
func (s *Store) ToggleDarkMode() {
	s.Update(func(st *State) {
		st.Theme.applyDarkMode(!st.Theme.IsDarkMode)
	})
}

// SetDarkMode включает или выключает темную тему
func (s *Store) SetDarkMode(dark bool) {
	s.Update(func(st *State) {
		st.Theme.applyDarkMode(dark)
	})
}

// SetThemeColor задает цвет темы по имени: primary, secondary, accent, background, text
func (s *Store) SetThemeColor(name, value string) bool {
	ok := true
	s.Update(func(st *State) {
		c := &st.Theme.Colors
		switch name {
		case "primary":
			c.Primary = value
		case "secondary":
			c.Secondary = value
		case "accent":
			c.Accent = value
		case "background":
			c.Background = value
		case "text":
			c.Text = value
		default:
			ok = false
		}
	})
	return ok
}

// ResetTheme возвращает цвета по умолчанию с учетом темного режима
func (s *Store) ResetTheme() {
	s.Update(func(st *State) {
		st.Theme.Colors = lightColors()
		st.Theme.applyDarkMode(st.Theme.IsDarkMode)
	})
}
