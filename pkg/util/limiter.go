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
	"context"
	"sync"
)

// Limiter limiter implemention by token
type Limiter struct {
	sync.Mutex

	max    uint64
	tokens uint64

	cond *sync.Cond
}

// NewLimiter return a limiter with max, 0 means unlimited
func NewLimiter(max uint64) *Limiter {
	l := &Limiter{
		max:    max,
		tokens: 0,
	}
	l.cond = sync.NewCond(&l.Mutex)
	return l
}

// TryAcquire returns false if there is no token available
func (l *Limiter) TryAcquire() bool {
	l.Lock()
	succ := l.getToken()
	l.Unlock()

	return succ
}

// Wait wait until get the token or the ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		l.Lock()
		l.cond.Broadcast()
		l.Unlock()
	})
	defer stop()

	l.Lock()
	defer l.Unlock()
	for !l.getToken() {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.cond.Wait()
	}

	return nil
}

// Release release token
func (l *Limiter) Release() {
	l.Lock()
	if l.tokens > 0 {
		l.tokens--
	}
	l.Unlock()
	l.cond.Signal()
}

// Current returns the number of tokens in use
func (l *Limiter) Current() uint64 {
	l.Lock()
	n := l.tokens
	l.Unlock()
	return n
}

func (l *Limiter) getToken() bool {
	succ := l.max == 0 || l.tokens < l.max
	if succ {
		l.tokens++
	}

	return succ
}
