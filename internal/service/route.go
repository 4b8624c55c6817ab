package service

import "github.com/signpath/signpath-server/internal/model"

// Route decides which surface the presentation layer shows for a state.
// Roles outside the known set land on the student dashboard; callers that
// care can detect it with KnownRole.
func Route(state model.SessionState) model.Screen {
	if state.Loading {
		return model.ScreenLoading
	}
	if state.Identity == nil {
		return model.ScreenEntry
	}
	if state.Identity.Onboarding == model.Unonboarded && state.Identity.Role != model.RoleAdmin {
		return model.ScreenRoleSelection
	}

	switch state.Identity.Role {
	case model.RoleAdmin:
		return model.ScreenAdminDashboard
	case model.RoleTutor:
		return model.ScreenTutorDashboard
	case model.RoleStudent:
		return model.ScreenStudentDashboard
	default:
		return model.ScreenStudentDashboard
	}
}

// KnownRole reports whether r is one of the fixed roles.
func KnownRole(r model.Role) bool {
	switch r {
	case model.RoleStudent, model.RoleTutor, model.RoleAdmin:
		return true
	default:
		return false
	}
}

// View is the transport representation of a session state.
func View(state model.SessionState) model.SessionView {
	view := model.SessionView{
		Screen:  Route(state).String(),
		Loading: state.Loading,
	}
	if state.Identity != nil {
		identity := state.Identity.Clone()
		view.Identity = &identity
	}
	return view
}
