//go:build !hidegroups

package buildflags

// Group is only declared without the hidegroups tag.
//
//atomflag:gen ownership="Arc"
type Group uint16
