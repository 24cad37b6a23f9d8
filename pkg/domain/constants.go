package domain

import "strings"

// Key identifies a physical control or a reserved internal event.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyOK
	KeyPause

	// Reserved keys, never produced by an input device.
	KeyEnd    // shutdown request
	KeyTick   // overlay timeout expired
	KeyReload // library changed on disk
	KeyResume // leave settings mode
)

var keyNames = map[Key]string{
	KeyNone:   "none",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyHome:   "home",
	KeyOK:     "ok",
	KeyPause:  "pause",
	KeyEnd:    "end",
	KeyTick:   "tick",
	KeyReload: "reload",
	KeyResume: "resume",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey maps a key name back to its Key. Unknown names yield KeyNone.
func ParseKey(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k
		}
	}
	return KeyNone
}

// Status is a snapshot of the held state of the device keys, used for chords.
type Status uint16

// With returns a copy of s with k marked as held (or released).
func (s Status) With(k Key, held bool) Status {
	if held {
		return s | 1<<uint(k)
	}
	return s &^ (1 << uint(k))
}

// Held reports whether k was held when the snapshot was taken.
func (s Status) Held(k Key) bool {
	return s&(1<<uint(k)) != 0
}
