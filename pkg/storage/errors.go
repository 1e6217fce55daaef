// Copyright 2016 DeepFabric, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"errors"
)

var (
	// ErrWrongType the key holds a value of other kind
	ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")
	// ErrNotInteger the value is not a integer
	ErrNotInteger = errors.New("ERR value is not an integer or out of range")
	// ErrNotFloat the value is not a float
	ErrNotFloat = errors.New("ERR value is not a valid float")
	// ErrOverflow the result of incr or decr is out of int64
	ErrOverflow = errors.New("ERR increment or decrement would overflow")
)

// IsReplyError returns true if the err can be replied to the redis client as it is
func IsReplyError(err error) bool {
	switch err {
	case ErrWrongType, ErrNotInteger, ErrNotFloat, ErrOverflow:
		return true
	}
	return false
}
