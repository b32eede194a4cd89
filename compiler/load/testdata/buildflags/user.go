package buildflags

// User is always declared.
//
//atomflag:gen
type User uint8
