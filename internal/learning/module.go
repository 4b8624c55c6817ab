package learning

import (
	"errors"
	"fmt"
	"sync"

	"github.com/signpath/signpath-server/internal/logger"
	"github.com/signpath/signpath-server/internal/model"
)

var (
	// ErrUnknownLesson is returned when selecting a lesson missing from the catalog.
	ErrUnknownLesson = errors.New("unknown lesson")
	// ErrOutOfRange is returned when jumping past either end of a deck.
	ErrOutOfRange = errors.New("sign index out of range")
)

// SessionSource notifies about session transitions.
type SessionSource interface {
	Subscribe(fn func(model.SessionState)) (unsubscribe func())
}

// Progress counts completed signs across the catalog and the position in the current deck.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Position  int `json:"position"`
	DeckSize  int `json:"deck_size"`
}

// State is a snapshot of the module.
type State struct {
	Lesson    string   `json:"lesson"`
	Title     string   `json:"title"`
	Index     int      `json:"index"`
	Sign      Sign     `json:"sign"`
	Completed bool     `json:"completed"`
	Progress  Progress `json:"progress"`
}

// Module steps through the lesson decks of a catalog and remembers completed signs.
type Module struct {
	catalog *Catalog
	logger  *logger.Logger

	mu        sync.Mutex
	owner     string
	lesson    Lesson
	index     int
	completed map[string]struct{}
}

// NewModule creates a Module positioned on the first sign of the first lesson.
func NewModule(catalog *Catalog, logger *logger.Logger) *Module {
	return &Module{
		catalog:   catalog,
		logger:    logger,
		lesson:    catalog.Lessons[0],
		completed: make(map[string]struct{}),
	}
}

// Attach resets the module whenever the session becomes anonymous or a
// different identity becomes current. Progress belongs to the identity that
// was current when it was made.
func (m *Module) Attach(source SessionSource) (detach func()) {
	return source.Subscribe(func(state model.SessionState) {
		if state.Loading {
			return
		}

		m.mu.Lock()
		var reason string
		switch {
		case state.Identity == nil:
			m.owner = ""
			reason = "logout"
		case m.owner == "" || m.owner == state.Identity.ID:
			m.owner = state.Identity.ID
		default:
			m.owner = state.Identity.ID
			reason = "identity change"
		}
		if reason != "" {
			m.resetLocked()
		}
		m.mu.Unlock()

		if reason != "" {
			m.logger.Debug("Learning module: progress cleared", "reason", reason)
		}
	})
}

func (m *Module) resetLocked() {
	m.lesson = m.catalog.Lessons[0]
	m.index = 0
	clear(m.completed)
}

// State returns the current position.
func (m *Module) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stateLocked()
}

// Select switches to lesson id and rewinds to its first sign. Completed marks are kept.
func (m *Module) Select(id string) (State, error) {
	lesson, ok := m.catalog.Lesson(id)
	if !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownLesson, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lesson = lesson
	m.index = 0
	return m.stateLocked(), nil
}

// Next advances one sign, staying on the last one.
func (m *Module) Next() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index < len(m.lesson.Signs)-1 {
		m.index++
	}
	return m.stateLocked()
}

// Prev goes back one sign, staying on the first one.
func (m *Module) Prev() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index > 0 {
		m.index--
	}
	return m.stateLocked()
}

// Jump moves to sign i of the current lesson.
func (m *Module) Jump(i int) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.lesson.Signs) {
		return State{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(m.lesson.Signs))
	}
	m.index = i
	return m.stateLocked(), nil
}

// MarkCompleted marks the current sign as learned.
func (m *Module) MarkCompleted() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed[signKey(m.lesson.ID, m.index)] = struct{}{}
	return m.stateLocked()
}

// Reset rewinds the current lesson and forgets every completed sign.
func (m *Module) Reset() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index = 0
	clear(m.completed)
	return m.stateLocked()
}

func (m *Module) stateLocked() State {
	_, done := m.completed[signKey(m.lesson.ID, m.index)]
	return State{
		Lesson:    m.lesson.ID,
		Title:     m.lesson.Title,
		Index:     m.index,
		Sign:      m.lesson.Signs[m.index],
		Completed: done,
		Progress: Progress{
			Completed: len(m.completed),
			Total:     m.catalog.TotalSigns(),
			Position:  m.index + 1,
			DeckSize:  len(m.lesson.Signs),
		},
	}
}

func signKey(lesson string, index int) string {
	return fmt.Sprintf("%s-%d", lesson, index)
}
