// Package live holds the transient state of a live room: its seat layout
// and the rolling chat. Nothing here is persisted.
package live

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/tikbook/internal/models"
)

const (
	SeatCount   = 12
	MaxMessages = 20
)

var (
	ErrSeatTaken  = errors.New("seat is taken")
	ErrSeatLocked = errors.New("seat is locked")
	ErrNoSuchSeat = errors.New("no such seat")
	ErrNotSeated  = errors.New("not seated")
)

type Seat struct {
	Index    int
	UserID   string
	UserName string
	Level    int
	Locked   bool
	Speaking bool
}

func (s Seat) Empty() bool {
	return s.UserID == ""
}

// Room is safe for concurrent use.
type Room struct {
	mu       sync.Mutex
	info     models.Room
	seats    [SeatCount]Seat
	messages []models.ChatMessage
}

func NewRoom(info models.Room) *Room {
	r := &Room{info: info}
	for i := range r.seats {
		r.seats[i].Index = i
	}
	return r
}

func (r *Room) Info() models.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

// Post appends m, keeping only the newest MaxMessages.
func (r *Room) Post(m models.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, m)
	if n := len(r.messages); n > MaxMessages {
		r.messages = append([]models.ChatMessage(nil), r.messages[n-MaxMessages:]...)
	}
}

// Messages returns the chat oldest first.
func (r *Room) Messages() []models.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ChatMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

func (r *Room) Seats() [SeatCount]Seat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seats
}

func (r *Room) seat(i int) (*Seat, error) {
	if i < 0 || i >= SeatCount {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSeat, i)
	}
	return &r.seats[i], nil
}

// TakeSeat puts u on seat i, moving them off any seat they already hold.
func (r *Room) TakeSeat(i int, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.seat(i)
	if err != nil {
		return err
	}
	if s.Locked {
		return ErrSeatLocked
	}
	if !s.Empty() && s.UserID != u.ID {
		return ErrSeatTaken
	}

	for j := range r.seats {
		if r.seats[j].UserID == u.ID {
			r.seats[j] = Seat{Index: j, Locked: r.seats[j].Locked}
		}
	}
	s.UserID, s.UserName, s.Level = u.ID, u.Name, u.SupporterLevel
	return nil
}

func (r *Room) LeaveSeat(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for j := range r.seats {
		if r.seats[j].UserID == userID {
			r.seats[j] = Seat{Index: j, Locked: r.seats[j].Locked}
			return nil
		}
	}
	return ErrNotSeated
}

// SetLocked locks or unlocks seat i. Locking an occupied seat is refused.
func (r *Room) SetLocked(i int, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.seat(i)
	if err != nil {
		return err
	}
	if locked && !s.Empty() {
		return ErrSeatTaken
	}
	s.Locked = locked
	return nil
}

// SetSpeaking turns the mic of userID's seat on or off.
func (r *Room) SetSpeaking(userID string, speaking bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for j := range r.seats {
		if r.seats[j].UserID == userID {
			r.seats[j].Speaking = speaking
			return nil
		}
	}
	return ErrNotSeated
}
