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
	"bytes"
	"errors"
	"strconv"

	"github.com/fagongzi/goetty"
	"github.com/fagongzi/util/hack"
	pe "github.com/pkg/errors"
)

var (
	// ErrIllegalPacket parse err
	ErrIllegalPacket = errors.New("illegal packet data")
)

const (
	// CMDBegin prefix of redis command
	CMDBegin = '*'
	// ARGBegin prefix of a bulk argument
	ARGBegin = '$'
	// CR \r
	CR = '\r'
	// LF \n
	LF = '\n'

	maxArgsCount = 1024 * 1024
	maxArgBytes  = 512 * 1024 * 1024
	maxInline    = 64 * 1024
	// the args slice grows with the received args beyond this
	initArgsCap = 16
)

// IsIllegalPacket returns true if the err is caused by a malformed request
func IsIllegalPacket(err error) bool {
	return pe.Cause(err) == ErrIllegalPacket
}

func readCommand(in *goetty.ByteBuf) (bool, interface{}, error) {
	for {
		if in.Readable() == 0 {
			return false, nil, nil
		}

		c, err := in.PeekByte(0)
		if err != nil {
			return false, nil, err
		}

		var complete bool
		var cmd Command
		if c == CMDBegin {
			complete, cmd, err = readCommandByRedisProtocol(in)
		} else {
			complete, cmd, err = readCommandByInline(in)
		}

		if err != nil || !complete {
			return complete, nil, err
		}

		// empty inline lines and zero sized multi bulk are skipped
		if len(cmd) > 0 {
			return true, cmd, nil
		}
	}
}

func readCommandByInline(in *goetty.ByteBuf) (bool, Command, error) {
	size := in.Readable()
	for offset := 0; offset < size; offset++ {
		ch, _ := in.PeekByte(offset)
		if ch != LF {
			continue
		}

		_, line, err := in.ReadBytes(offset + 1)
		if err != nil {
			return false, nil, err
		}

		line = bytes.TrimRight(line, "\r\n")
		fields := bytes.Fields(line)
		cmd := make(Command, 0, len(fields))
		for _, field := range fields {
			cmd = append(cmd, field)
		}
		return true, cmd, nil
	}

	if size > maxInline {
		return false, nil, pe.Wrap(ErrIllegalPacket, "too big inline request")
	}

	return false, nil, nil
}

func readCommandByRedisProtocol(in *goetty.ByteBuf) (bool, Command, error) {
	// remember the begin read index,
	// if we found has no enough data, we will resume this read index,
	// and waiting for next.
	backupReaderIndex := in.GetReaderIndex()

	// 1. Read ( *<number of arguments> CR LF )
	in.Skip(1)

	// 2. Read number of arguments
	count, argsCount, err := readStringInt(in)
	if count == 0 && err == nil {
		in.SetReaderIndex(backupReaderIndex)
		return false, nil, nil
	} else if err != nil {
		return false, nil, err
	}

	if argsCount > maxArgsCount {
		return false, nil, pe.Wrapf(ErrIllegalPacket, "invalid multibulk length %d", argsCount)
	}

	if argsCount <= 0 {
		return true, nil, nil
	}

	data := make(Command, 0, min(argsCount, initArgsCap))

	// 3. Read args
	for i := 0; i < argsCount; i++ {
		if in.Readable() == 0 {
			in.SetReaderIndex(backupReaderIndex)
			return false, nil, nil
		}

		// 3.1 Read ( $<number of bytes of argument 1> CR LF )
		c, err := in.ReadByte()
		if err != nil {
			return false, nil, err
		}

		if c != ARGBegin {
			return false, nil, pe.Wrapf(ErrIllegalPacket, "expected '$', got '%c'", c)
		}

		count, argBytesCount, err := readStringInt(in)
		if count == 0 && err == nil {
			in.SetReaderIndex(backupReaderIndex)
			return false, nil, nil
		} else if err != nil {
			return false, nil, err
		} else if argBytesCount < 0 || argBytesCount > maxArgBytes {
			return false, nil, pe.Wrapf(ErrIllegalPacket, "invalid bulk length %d", argBytesCount)
		}

		// 3.2 Read ( <argument data> CR LF )
		if in.Readable() < argBytesCount+2 {
			in.SetReaderIndex(backupReaderIndex)
			return false, nil, nil
		}

		_, value, err := in.ReadBytes(argBytesCount + 2)
		if err != nil {
			return false, nil, err
		}

		if value[argBytesCount] != CR || value[argBytesCount+1] != LF {
			return false, nil, pe.Wrap(ErrIllegalPacket, "bulk not end with CRLF")
		}

		data = append(data, value[:argBytesCount])
	}

	return true, data, nil
}

func readStringInt(in *goetty.ByteBuf) (int, int, error) {
	count, line, err := readLine(in)
	if count == 0 && err == nil {
		return 0, 0, nil
	} else if err != nil {
		return 0, 0, err
	}

	// count-2:exclude 'CR LF'
	value, err := strconv.Atoi(hack.SliceToString(line[:count-2]))
	if err != nil {
		return 0, 0, pe.Wrap(ErrIllegalPacket, err.Error())
	}

	return len(line), value, nil
}

func readLine(in *goetty.ByteBuf) (int, []byte, error) {
	offset := 0
	size := in.Readable()

	for offset < size {
		ch, _ := in.PeekByte(offset)
		if ch == LF {
			if offset == 0 {
				return 0, nil, pe.Wrap(ErrIllegalPacket, "empty line")
			}

			ch, _ := in.PeekByte(offset - 1)
			if ch == CR {
				return in.ReadBytes(offset + 1)
			}

			return 0, nil, pe.Wrap(ErrIllegalPacket, "line not end with CRLF")
		}
		offset++
	}

	return 0, nil, nil
}
