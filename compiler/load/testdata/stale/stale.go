package stale

//atomflag:gen
type Flags uint16
