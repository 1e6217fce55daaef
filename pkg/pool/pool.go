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

package pool

import (
	"sync"

	"github.com/deepfabric/cellkv/pkg/redis"
)

var (
	responsePool sync.Pool
)

// AcquireResponse returns a response from pool
func AcquireResponse() *redis.Response {
	v := responsePool.Get()
	if v == nil {
		return &redis.Response{}
	}
	return v.(*redis.Response)
}

// ReleaseResponse returns a response to pool
func ReleaseResponse(resp *redis.Response) {
	resp.Reset()
	responsePool.Put(resp)
}
