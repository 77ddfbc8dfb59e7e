package packer

import "errors"

// ErrDuplicateOutput is reported for an input whose output path was
// already claimed by an earlier input in walk order.
var ErrDuplicateOutput = errors.New("packer: duplicate output path")
