package models

import "time"

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"username"`
	Caption   string    `json:"caption"`
	MediaURL  string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Likes     int64     `json:"likes"`
	Comments  int64     `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type Room struct {
	ID        string    `json:"id"`
	HostID    string    `json:"hostId"`
	HostName  string    `json:"hostName"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover,omitempty"`
	Viewers   int64     `json:"viewers"`
	CreatedAt time.Time `json:"createdAt"`
}

type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"username"`
	MediaURL  string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type Gift struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Price int64  `json:"price"`
}

// ChatMessage is a transient live-room message. Level carries the sender's
// supporter level at the time of sending.
type ChatMessage struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Level     int       `json:"level"`
	IsGift    bool      `json:"isGift"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultGifts is the gift catalogue offered in live rooms.
var DefaultGifts = []Gift{
	{ID: "rose", Name: "Rose", Icon: "🌹", Price: 1},
	{ID: "heart", Name: "Heart", Icon: "❤️", Price: 5},
	{ID: "crown", Name: "Crown", Icon: "👑", Price: 99},
	{ID: "rocket", Name: "Rocket", Icon: "🚀", Price: 500},
	{ID: "castle", Name: "Castle", Icon: "🏰", Price: 1000},
}

// FindGift looks a gift up by id in DefaultGifts.
func FindGift(id string) (Gift, bool) {
	for _, g := range DefaultGifts {
		if g.ID == id {
			return g, true
		}
	}
	return Gift{}, false
}
