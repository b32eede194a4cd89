package failure

//atomflag:gen
type Broken uint8

var _ = undefinedName
