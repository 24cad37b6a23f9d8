package pack

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// File names inside a pack directory.
const (
	NodeIndexFile  = "ni"
	LinkIndexFile  = "li"
	ImageIndexFile = "ri"
	SoundIndexFile = "si"
	NightModeFile  = "nm"
	ImageDir       = "rf"
	SoundDir       = "sf"
	ThumbnailFile  = "thumbnail.png"
)

const (
	// HeaderSize is the size of the ni header.
	HeaderSize = 512
	// NodeSize is the size of a node record for format version 1.
	NodeSize = 44
	// NameSize is the size of an entry of the asset name tables.
	NameSize = 12
)

// Header is the ni file header.
type Header struct {
	FormatVersion   uint16
	PackVersion     uint16
	NodesOffset     uint32
	NodeSize        uint32
	StageCount      uint32
	ImageCount      uint32
	SoundCount      uint32
	FactoryDisabled uint8
	_               [487]byte
}

// fits reports whether the node table described by h lies within a file of size bytes.
func (h *Header) fits(size int) bool {
	if h.NodesOffset < HeaderSize || h.NodeSize < NodeSize || h.StageCount == 0 {
		return false
	}
	return h.end() <= uint64(size)
}

func (h *Header) end() uint64 {
	return uint64(h.NodesOffset) + uint64(h.StageCount)*uint64(h.NodeSize)
}

// TransitionRecord is the on-disk form of a transition.
// Index points into the link table; Index < 0 or Count < 1 means absent.
type TransitionRecord struct {
	Index    int32
	Count    int32
	Selected int32
}

// Node is a stage record. Asset indices are -1 when unused.
type Node struct {
	Image    int32
	Sound    int32
	OK       TransitionRecord
	Home     TransitionRecord
	Wheel    uint16
	OKOn     uint16
	HomeOn   uint16
	Pause    uint16
	Autoplay uint16
	_        uint16
}

func parseHeader(b []byte) (Header, error) {
	var h Header
	err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, &h)
	return h, err
}

func parseNode(b []byte) (Node, error) {
	var n Node
	err := binary.Read(bytes.NewReader(b[:NodeSize]), binary.LittleEndian, &n)
	return n, err
}

func parseLinks(b []byte) []uint32 {
	links := make([]uint32, len(b)/4)
	for i := range links {
		links[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return links
}

func parseNames(b []byte) []string {
	names := make([]string, len(b)/NameSize)
	for i := range names {
		raw := b[i*NameSize : (i+1)*NameSize]
		raw = bytes.TrimRight(raw, "\x00")
		names[i] = strings.ReplaceAll(string(raw), `\`, "/")
	}
	return names
}

func formatName(name string) []byte {
	b := make([]byte, NameSize)
	copy(b, strings.ReplaceAll(name, "/", `\`))
	return b
}

func flag(v uint16) bool {
	return v != 0
}

func unflag(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
