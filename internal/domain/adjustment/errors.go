package adjustment

import "errors"

var ErrAdjustmentNotFound = errors.New("adjustment request not found")
