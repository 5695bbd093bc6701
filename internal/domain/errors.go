package domain

import "errors"

var ErrQueryLogDisabled = errors.New("query log is disabled")
