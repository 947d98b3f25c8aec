package synchronizer

import (
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
)

// mirror is the local optimistic copy of the remote documents for one signed-in user.
type mirror struct {
	userID string
	users  []user.User
	routes []route.Route
}

func (m *mirror) loggedIn() bool { return m.userID != "" }

func (m *mirror) current() *user.User { return m.user(m.userID) }

func (m *mirror) user(id string) *user.User {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i]
		}
	}
	return nil
}

func (m *mirror) route(id string) *route.Route {
	for i := range m.routes {
		if m.routes[i].ID == id {
			return &m.routes[i]
		}
	}
	return nil
}

func (m *mirror) prependRoute(r route.Route) {
	m.routes = append([]route.Route{r}, m.routes...)
}

func (m *mirror) dropRoute(id string) {
	for i := range m.routes {
		if m.routes[i].ID == id {
			m.routes = append(m.routes[:i:i], m.routes[i+1:]...)
			return
		}
	}
}
