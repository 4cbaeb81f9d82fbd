package defs

const (
	Port = 50000
	FPS  = 30
)

// LkCtrl is what a client needs to join the avatar's room.
type LkCtrl struct {
	Ws    string `json:"ws,omitempty"`
	Token string `json:"token,omitempty"`
	Room  string `json:"room,omitempty"`
	Name  string `json:"name,omitempty"`
}
