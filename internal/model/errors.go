package model

import "errors"

// ErrStorage marks a write that was not acknowledged or a read that failed
// at the store. Repository errors wrap it so handlers can map every storage
// failure to a 500 with a single errors.Is check.
var ErrStorage = errors.New("storage error")
