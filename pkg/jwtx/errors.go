package jwtx

import "errors"

// ErrInvalidToken covers every verification failure: bad signature, wrong
// algorithm, wrong issuer, wrong use, expired, not yet valid. Callers must
// not be able to tell an expired token from a forged one.
var ErrInvalidToken = errors.New("jwtx: invalid token")
