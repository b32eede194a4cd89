package invalid

//atomflag:gen
type Name string

//atomflag:gen
type Alias = uint8

//atomflag:generate
type Ignored uint8
