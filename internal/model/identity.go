package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the capability set a principal acts with.
type Role string

const (
	// RoleStudent learns through lessons and tutors.
	RoleStudent Role = "student"
	// RoleTutor teaches and uploads content.
	RoleTutor Role = "tutor"
	// RoleAdmin manages the platform. Reserved for the administrator login.
	RoleAdmin Role = "admin"
)

// Selectable reports whether the role may be chosen during onboarding.
func (r Role) Selectable() bool {
	return r == RoleStudent || r == RoleTutor
}

// Onboarding tells whether a principal has completed role selection.
type Onboarding string

const (
	// Unonboarded principals are routed to role selection.
	Unonboarded Onboarding = "unonboarded"
	// Onboarded principals are routed to their role dashboard.
	Onboarded Onboarding = "onboarded"
)

// Identity is the current authenticated principal.
type Identity struct {
	ID         string     `json:"id" validate:"required"`
	Email      string     `json:"email"`
	Role       Role       `json:"role" validate:"required,oneof=student tutor admin"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt" validate:"required"`
	Onboarding Onboarding `json:"onboarding,omitempty" validate:"omitempty,oneof=unonboarded onboarded"`
	Profile    *Profile   `json:"profile,omitempty"`
}

// Clone returns a deep copy of the identity.
func (i Identity) Clone() Identity {
	out := i
	if i.Profile != nil {
		p := i.Profile.clone()
		out.Profile = &p
	}
	return out
}

// derivedOnboarding infers onboarding for records written before the field existed.
func (i Identity) derivedOnboarding() Onboarding {
	if i.Role == RoleAdmin || i.Profile != nil {
		return Onboarded
	}
	return Unonboarded
}

// StudentProfile holds learning progress of a student.
type StudentProfile struct {
	Level              string          `json:"level" validate:"oneof=beginner intermediate advanced"`
	Progress           StudentProgress `json:"progress"`
	SubscriptionStatus string          `json:"subscription_status" validate:"oneof=free paid"`
}

// StudentProgress lists completed lessons and test results.
type StudentProgress struct {
	CompletedLessons []string    `json:"completed_lessons"`
	TestScores       []TestScore `json:"test_scores" validate:"dive"`
}

// TestScore is the result of a level test.
type TestScore struct {
	Level       string    `json:"level"`
	Score       int       `json:"score" validate:"gte=0"`
	Total       int       `json:"total" validate:"gte=0"`
	CompletedAt time.Time `json:"completed_at"`
}

// TutorProfile holds the public profile and approval state of a tutor.
type TutorProfile struct {
	Approved          bool     `json:"approved"`
	EducationVideoURL string   `json:"education_video_url,omitempty"`
	IDDocumentURL     string   `json:"id_document_url,omitempty"`
	Bio               string   `json:"bio"`
	HourlyRate        float64  `json:"hourly_rate" validate:"gte=0"`
	Specializations   []string `json:"specializations"`
	Earnings          float64  `json:"earnings" validate:"gte=0"`
}

// Profile is either a student or a tutor profile. Exactly one field is set.
type Profile struct {
	Student *StudentProfile
	Tutor   *TutorProfile
}

func (p Profile) clone() Profile {
	var out Profile
	if p.Student != nil {
		s := *p.Student
		s.Progress.CompletedLessons = append([]string(nil), p.Student.Progress.CompletedLessons...)
		s.Progress.TestScores = append([]TestScore(nil), p.Student.Progress.TestScores...)
		out.Student = &s
	}
	if p.Tutor != nil {
		t := *p.Tutor
		t.Specializations = append([]string(nil), p.Tutor.Specializations...)
		out.Tutor = &t
	}
	return out
}

// MarshalJSON writes the profile as a flat object, like the record format expects.
func (p Profile) MarshalJSON() ([]byte, error) {
	switch {
	case p.Student != nil && p.Tutor != nil:
		return nil, fmt.Errorf("profile has both student and tutor variants")
	case p.Student != nil:
		return json.Marshal(p.Student)
	case p.Tutor != nil:
		return json.Marshal(p.Tutor)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON picks the variant by the keys present in the object.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}

	_, hasLevel := keys["level"]
	_, hasSubscription := keys["subscription_status"]
	_, hasApproved := keys["approved"]
	_, hasRate := keys["hourly_rate"]

	*p = Profile{}
	switch {
	case hasLevel || hasSubscription:
		var s StudentProfile
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode student profile: %w", err)
		}
		p.Student = &s
	case hasApproved || hasRate:
		var t TutorProfile
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to decode tutor profile: %w", err)
		}
		p.Tutor = &t
	default:
		return fmt.Errorf("unknown profile shape")
	}
	return nil
}
