package service

import (
	"fmt"

	"github.com/signpath/signpath-server/internal/model"
)

// NewSessionResponse pairs the view of state with a token for its identity.
func NewSessionResponse(tokens model.TokenManager, state model.SessionState) (model.SessionResponse, error) {
	resp := model.SessionResponse{Session: View(state)}
	if state.Identity == nil {
		return resp, nil
	}

	token, err := tokens.GenerateAccessToken(*state.Identity)
	if err != nil {
		return model.SessionResponse{}, fmt.Errorf("failed to issue token for %s: %w", state.Identity.ID, err)
	}
	resp.AccessToken = token

	return resp, nil
}
