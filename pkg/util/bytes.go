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

package util

import (
	"math"
	"strconv"

	"github.com/fagongzi/util/hack"
	"github.com/pkg/errors"
)

var (
	// ErrOverflow int64 overflow
	ErrOverflow = errors.New("int64 overflow")
	// ErrNotInt64 the value is not the canonical form of a int64
	ErrNotInt64 = errors.New("not a int64")
)

const (
	maxInt64Len = 20
)

// StrInt64 str -> int64, only the canonical form is accepted, as the redis
// server does: no '+', no leading zeros, no spaces and no "-0".
func StrInt64(v []byte) (int64, error) {
	if !isCanonicalInt(v) {
		return 0, ErrNotInt64
	}

	n, err := strconv.ParseInt(hack.SliceToString(v), 10, 64)
	if err != nil {
		return 0, ErrNotInt64
	}

	return n, nil
}

func isCanonicalInt(v []byte) bool {
	if len(v) == 0 || len(v) > maxInt64Len {
		return false
	}

	if len(v) == 1 && v[0] == '0' {
		return true
	}

	i := 0
	if v[0] == '-' {
		i = 1
	}

	if i == len(v) || v[i] < '1' || v[i] > '9' {
		return false
	}

	for _, c := range v[i+1:] {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// FormatInt64ToBytes int64 -> string
func FormatInt64ToBytes(v int64) []byte {
	return strconv.AppendInt(nil, v, 10)
}

// AddInt64 returns a + b, or ErrOverflow if the result is out of int64
func AddInt64(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) ||
		(b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}

	return a + b, nil
}

// NegInt64 returns -v, or ErrOverflow for math.MinInt64
func NegInt64(v int64) (int64, error) {
	if v == math.MinInt64 {
		return 0, ErrOverflow
	}

	return -v, nil
}
