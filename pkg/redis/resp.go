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
	"strconv"

	"github.com/fagongzi/goetty"
	"github.com/fagongzi/util/hack"
)

var (
	delims    = []byte("\r\n")
	nullBulk  = []byte("-1")
	nullArray = []byte("-1")
)

func int64ToBytes(v int64) []byte {
	return strconv.AppendInt(nil, v, 10)
}

// WriteError writes a error reply
func WriteError(err []byte, buf *goetty.ByteBuf) {
	buf.WriteByte('-')
	if err != nil {
		buf.Write(err)
	}
	buf.Write(delims)
}

// WriteStatus writes a status reply
func WriteStatus(status []byte, buf *goetty.ByteBuf) {
	buf.WriteByte('+')
	buf.Write(status)
	buf.Write(delims)
}

// WriteInteger writes a integer reply
func WriteInteger(n int64, buf *goetty.ByteBuf) {
	buf.WriteByte(':')
	buf.Write(int64ToBytes(n))
	buf.Write(delims)
}

// WriteBulk writes a bulk reply, nil means null bulk
func WriteBulk(b []byte, buf *goetty.ByteBuf) {
	buf.WriteByte('$')
	if b == nil {
		buf.Write(nullBulk)
	} else {
		buf.Write(hack.StringToSlice(strconv.Itoa(len(b))))
		buf.Write(delims)
		buf.Write(b)
	}

	buf.Write(delims)
}

// WriteSliceArray writes a array reply of bulks
func WriteSliceArray(lst [][]byte, buf *goetty.ByteBuf) {
	buf.WriteByte('*')
	if lst == nil {
		buf.Write(nullArray)
		buf.Write(delims)
		return
	}

	buf.Write(hack.StringToSlice(strconv.Itoa(len(lst))))
	buf.Write(delims)

	for i := 0; i < len(lst); i++ {
		WriteBulk(lst[i], buf)
	}
}
