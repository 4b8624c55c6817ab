package model

// SessionState is a point-in-time view of the session.
// Identity is nil while anonymous.
type SessionState struct {
	Loading  bool
	Identity *Identity
}

// Authenticated reports whether an identity is current.
func (s SessionState) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

// Screen is the surface the presentation layer should show.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenEntry
	ScreenRoleSelection
	ScreenStudentDashboard
	ScreenTutorDashboard
	ScreenAdminDashboard
)

func (s Screen) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenEntry:
		return "entry"
	case ScreenRoleSelection:
		return "role_selection"
	case ScreenStudentDashboard:
		return "student_dashboard"
	case ScreenTutorDashboard:
		return "tutor_dashboard"
	case ScreenAdminDashboard:
		return "admin_dashboard"
	default:
		return "unknown"
	}
}

// SessionView is what transports return for a session state.
type SessionView struct {
	Screen   string    `json:"screen"`
	Loading  bool      `json:"loading"`
	Identity *Identity `json:"identity"`
}

// SessionResponse is returned by calls that change the session.
// AccessToken is empty when no identity is current.
type SessionResponse struct {
	AccessToken string      `json:"access_token,omitempty"`
	Session     SessionView `json:"session"`
}
