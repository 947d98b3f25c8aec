package synchronizer

import (
	"strollpath/internal/modules/route"
	"strollpath/internal/modules/user"
)

// Mutation records how to restore each mirror field a change touched.
// Undo steps run in reverse order of capture.
type Mutation struct {
	undo []func(m *mirror)
}

func (mut *Mutation) capture(fn func(m *mirror)) {
	mut.undo = append(mut.undo, fn)
}

func (mut *Mutation) rollback(m *mirror) {
	for i := len(mut.undo) - 1; i >= 0; i-- {
		mut.undo[i](m)
	}
	mut.undo = nil
}

// withUser and withRoute look the document up again at undo time; slices may have moved.
func withUser(id string, fn func(u *user.User)) func(m *mirror) {
	return func(m *mirror) {
		if u := m.user(id); u != nil {
			fn(u)
		}
	}
}

func withRoute(id string, fn func(r *route.Route)) func(m *mirror) {
	return func(m *mirror) {
		if r := m.route(id); r != nil {
			fn(r)
		}
	}
}

// updateUser applies up to the mirrored user, capturing the prior value of each field it sets.
func (mut *Mutation) updateUser(m *mirror, id string, up user.Update) error {
	u := m.user(id)
	if u == nil {
		return user.ErrNotFound
	}
	if up.Name != nil {
		prev := u.Name
		mut.capture(withUser(id, func(u *user.User) { u.Name = prev }))
	}
	if up.ImageURL != nil {
		prev := u.ImageURL
		mut.capture(withUser(id, func(u *user.User) { u.ImageURL = prev }))
	}
	if up.IsSearchable != nil {
		prev := u.IsSearchable
		mut.capture(withUser(id, func(u *user.User) { u.IsSearchable = prev }))
	}
	if up.DailyStepGoal != nil {
		prev := u.DailyStepGoal
		mut.capture(withUser(id, func(u *user.User) { u.DailyStepGoal = prev }))
	}
	for key := range up.Activity {
		prev, existed := u.Activity[key]
		mut.capture(withUser(id, func(u *user.User) {
			if existed {
				u.Activity[key] = prev
			} else {
				delete(u.Activity, key)
			}
		}))
	}
	up.Apply(u)
	return nil
}

// updateRoute applies edit to the mirrored route, capturing the prior value of each field it sets.
func (mut *Mutation) updateRoute(m *mirror, id string, edit route.Edit) error {
	r := m.route(id)
	if r == nil {
		return route.ErrNotFound
	}
	if edit.Name != nil {
		prev := r.Name
		mut.capture(withRoute(id, func(r *route.Route) { r.Name = prev }))
	}
	if edit.Description != nil {
		prev := r.Description
		mut.capture(withRoute(id, func(r *route.Route) { r.Description = prev }))
	}
	if edit.Tags != nil {
		prev := r.Tags
		mut.capture(withRoute(id, func(r *route.Route) { r.Tags = prev }))
	}
	if edit.IsPublic != nil {
		prev := r.IsPublic
		mut.capture(withRoute(id, func(r *route.Route) { r.IsPublic = prev }))
	}
	if edit.ImageURL != nil {
		prev := r.ImageURL
		mut.capture(withRoute(id, func(r *route.Route) { r.ImageURL = prev }))
	}
	edit.Apply(r)
	return nil
}
