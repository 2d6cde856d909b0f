package residue

import "errors"

// ErrConfig marks configuration validation failures raised before any
// connection attempt. Driver and connectivity errors are surfaced
// unchanged from GORM and never wrap this sentinel.
var ErrConfig = errors.New("residue: invalid configuration")
