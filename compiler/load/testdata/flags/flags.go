package flags

import "strings"

// Perm is a set of file permissions.
//
//atomflag:gen
type Perm uint8

const (
	Read Perm = 1 << iota
	Write
	Exec
)

func (p Perm) IsEmpty() bool { return p == 0 }

func (p Perm) Contains(other Perm) bool { return p&other == other }

func (p Perm) String() string {
	var names []string
	for _, f := range []struct {
		p    Perm
		name string
	}{{Read, "Read"}, {Write, "Write"}, {Exec, "Exec"}} {
		if p.Contains(f.p) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// Status is shared between workers.
//
//atomflag:gen ownership="Arc"
type Status uint32

type (
	// Mode is confined to one goroutine.
	//atomflag:gen ownership="Rc"
	Mode int16

	// Other is not marked.
	Other uint8
)

// Contains has a pointer receiver and is not part of the value method set.
func (m *Mode) Contains(other Mode) bool { return *m&other == other }

// Plain is only selected through a manifest.
type Plain uint64
