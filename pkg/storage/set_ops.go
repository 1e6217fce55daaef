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
	"sort"

	"github.com/deepfabric/cellkv/pkg/util"
	"github.com/fagongzi/util/hack"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type setOp int

const (
	opInter = setOp(iota)
	opUnion
	opDiff
)

// apply applies the op on sets, a not exists key is a empty set.
func (op setOp) apply(sets [][]string) []string {
	if len(sets) == 0 {
		return nil
	}

	switch op {
	case opInter:
		result := lo.Uniq(sets[0])
		for _, set := range sets[1:] {
			if len(result) == 0 {
				break
			}
			result = lo.Intersect(result, set)
		}
		return result
	case opUnion:
		return lo.Union(sets...)
	default:
		result := lo.Uniq(sets[0])
		for _, set := range sets[1:] {
			if len(result) == 0 {
				break
			}
			exclude := lo.SliceToMap(set, func(member string) (string, struct{}) {
				return member, struct{}{}
			})
			result = lo.Filter(result, func(member string, _ int) bool {
				_, ok := exclude[member]
				return !ok
			})
		}
		return result
	}
}

func sortedMembers(members []string) [][]byte {
	sort.Strings(members)
	values := make([][]byte, 0, len(members))
	for _, m := range members {
		values = append(values, []byte(m))
	}
	return values
}

func incrValue(value []byte, incr int64) (int64, error) {
	var current int64
	if value != nil {
		v, err := util.StrInt64(value)
		if err != nil {
			return 0, ErrNotInteger
		}
		current = v
	}

	n, err := util.AddInt64(current, incr)
	if err != nil {
		return 0, ErrOverflow
	}

	return n, nil
}

func incrFloatValue(value []byte, incr decimal.Decimal) ([]byte, error) {
	current := decimal.Zero
	if value != nil {
		v, err := decimal.NewFromString(hack.SliceToString(value))
		if err != nil {
			return nil, ErrNotFloat
		}
		current = v
	}

	return []byte(current.Add(incr).String()), nil
}
