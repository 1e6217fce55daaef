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

package redis

import (
	"fmt"

	"github.com/fagongzi/goetty"
	"github.com/fagongzi/util/hack"
)

var (
	// StatusOK OK
	StatusOK = []byte("OK")
	// StatusPong PONG
	StatusPong = []byte("PONG")
)

// Response is a redis reply, only one of the result fields is used.
type Response struct {
	ErrorResult      []byte
	StatusResult     []byte
	IntegerResult    *int64
	BulkResult       []byte
	SliceArrayResult [][]byte

	// HasEmptyBulkResult means reply a null bulk when BulkResult is nil
	HasEmptyBulkResult bool
	// HasEmptySliceArrayResult means reply a empty array when SliceArrayResult is nil
	HasEmptySliceArrayResult bool
}

// Reset resets the response for reuse
func (rsp *Response) Reset() {
	*rsp = Response{}
}

// SetError sets the error result
func (rsp *Response) SetError(err error) {
	rsp.ErrorResult = hack.StringToSlice(err.Error())
}

// SetErrorf sets the error result with a formatted message
func (rsp *Response) SetErrorf(format string, args ...interface{}) {
	rsp.ErrorResult = hack.StringToSlice(fmt.Sprintf(format, args...))
}

// SetInteger sets the integer result
func (rsp *Response) SetInteger(value int64) {
	rsp.IntegerResult = &value
}

// SetBulk sets the bulk result, nil value means null bulk
func (rsp *Response) SetBulk(value []byte) {
	rsp.BulkResult = value
	rsp.HasEmptyBulkResult = value == nil
}

// SetSliceArray sets the array result, nil value means empty array
func (rsp *Response) SetSliceArray(values [][]byte) {
	rsp.SliceArrayResult = values
	rsp.HasEmptySliceArrayResult = values == nil
}

// WriteTo writes the redis protocol format of the response to buf
func (rsp *Response) WriteTo(buf *goetty.ByteBuf) {
	if rsp.ErrorResult != nil {
		WriteError(rsp.ErrorResult, buf)
		return
	}

	if rsp.StatusResult != nil {
		WriteStatus(rsp.StatusResult, buf)
		return
	}

	if rsp.IntegerResult != nil {
		WriteInteger(*rsp.IntegerResult, buf)
		return
	}

	if rsp.BulkResult != nil || rsp.HasEmptyBulkResult {
		WriteBulk(rsp.BulkResult, buf)
		return
	}

	if rsp.SliceArrayResult != nil || rsp.HasEmptySliceArrayResult {
		lst := rsp.SliceArrayResult
		if lst == nil {
			lst = [][]byte{}
		}
		WriteSliceArray(lst, buf)
		return
	}

	WriteBulk(nil, buf)
}
