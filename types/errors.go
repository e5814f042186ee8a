package types

import "errors"

// ErrDeallocatedPage is returned by a disk manager when asked to read a
// page id that has already been deallocated.
var ErrDeallocatedPage = errors.New("deallocated page id was passed")
