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

package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deepfabric/cellkv/pkg/pool"
	"github.com/deepfabric/cellkv/pkg/redis"
	"github.com/deepfabric/cellkv/pkg/storage"
	"github.com/deepfabric/cellkv/pkg/util"
	"github.com/fagongzi/goetty"
	"github.com/fagongzi/log"
	"golang.org/x/time/rate"
)

var (
	errMaxClients    = []byte("ERR max number of clients reached")
	errProtocolError = []byte("ERR Protocol error")
)

type handler func(cmd redis.Command, rsp *redis.Response)

// command is a entry of the command table, arity is the number of
// the args include the command name, negative means at least -arity.
type command struct {
	name    string
	arity   int
	handler handler
}

func (c *command) checkArity(cmd redis.Command) bool {
	if c.arity > 0 {
		return len(cmd) == c.arity
	}

	return len(cmd) >= -c.arity
}

// RedisServer is provide a redis like server
type RedisServer struct {
	cfg    *RedisCfg
	s      *goetty.Server
	driver storage.Driver

	commands map[string]*command

	clients *util.Limiter
	limiter *rate.Limiter

	totalCMDs    uint64
	rejectedCMDs uint64

	ctx    context.Context
	cancel context.CancelFunc

	// goetty signals the start only once, startedC is closed for all waiters
	mu       sync.Mutex
	started  bool
	stopped  bool
	startedC chan struct{}
}

// NewRedisServer returns a redis server serve the data of the driver
func NewRedisServer(cfg *RedisCfg, driver storage.Driver) *RedisServer {
	s := &RedisServer{
		cfg:      cfg,
		driver:   driver,
		clients:  util.NewLimiter(cfg.MaxClients),
		startedC: make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if cfg.LimitCMDRate > 0 {
		burst := util.GetIntValue(cfg.LimitCMDBurst, cfg.LimitCMDRate)
		s.limiter = rate.NewLimiter(rate.Limit(cfg.LimitCMDRate), burst)
	}

	s.s = goetty.NewServer(cfg.Listen,
		goetty.WithServerDecoder(redis.Decoder),
		goetty.WithServerEncoder(redis.Encoder),
		goetty.WithServerReadBufSize(cfg.ReadBufferSize),
		goetty.WithServerWriteBufSize(cfg.WriteBufferSize))

	s.init()
	return s
}

// Start used for start the redis server, blocked until the server stopped
func (s *RedisServer) Start() error {
	log.Infof("bootstrap: redis server start at %s", s.cfg.Listen)

	doneC := make(chan struct{})
	go s.waitStarted(doneC)

	err := s.s.Start(s.doConnection)
	close(doneC)
	return err
}

func (s *RedisServer) waitStarted(doneC chan struct{}) {
	select {
	case <-s.s.Started():
	case <-doneC:
		return
	}

	s.mu.Lock()
	s.started = true
	stopped := s.stopped
	close(s.startedC)
	s.mu.Unlock()

	// Stop was called before the listener is ready
	if stopped {
		s.s.Stop()
	}
}

// Started returns a chan which is closed after the redis server is listening
func (s *RedisServer) Started() chan struct{} {
	return s.startedC
}

// Stop is used for stop redis server
func (s *RedisServer) Stop() error {
	s.cancel()

	s.mu.Lock()
	s.stopped = true
	started := s.started
	s.mu.Unlock()

	// the goetty server has no listener before started
	if started {
		s.s.Stop()
	}
	return nil
}

// Clients returns the number of connected clients
func (s *RedisServer) Clients() uint64 {
	return s.clients.Current()
}

func (s *RedisServer) init() {
	s.commands = make(map[string]*command)

	s.initConnCommands()
	s.initKeysCommands()
	s.initKVCommands()
	s.initSetCommands()
}

func (s *RedisServer) register(name string, arity int, h handler) {
	s.commands[name] = &command{
		name:    name,
		arity:   arity,
		handler: h,
	}
}

func (s *RedisServer) doConnection(conn goetty.IOSession) error {
	rs := newSession(conn)

	if !s.clients.TryAcquire() {
		clientsRejectedCounter.Inc()
		log.Warningf("redis-[%s]: rejected, max clients %d reached",
			rs.addr,
			s.cfg.MaxClients)
		rs.writeError(errMaxClients)
		return nil
	}

	clientsGauge.Inc()
	log.Debugf("redis-[%s]: connected", rs.addr)

	defer func() {
		s.clients.Release()
		clientsGauge.Dec()
		rs.close()
	}()

	for {
		req, err := conn.Read()
		if err != nil {
			if redis.IsIllegalPacket(err) {
				log.Warningf("redis-[%s]: protocol error, errors:\n %+v",
					rs.addr,
					err)
				rs.writeError(errProtocolError)
				return nil
			}

			if err == io.EOF {
				return nil
			}

			return err
		}

		cmd, ok := req.(redis.Command)
		if !ok {
			continue
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(s.ctx); err != nil {
				return nil
			}
		}

		if quit := s.onCommand(cmd, rs); quit {
			return nil
		}
	}
}

// onCommand dispatch the cmd and write the reply, returns true if the
// connection should be closed.
func (s *RedisServer) onCommand(cmd redis.Command, rs *session) bool {
	start := time.Now()
	atomic.AddUint64(&s.totalCMDs, 1)

	name := cmd.CmdString()
	label := name
	rsp := pool.AcquireResponse()

	c, ok := s.commands[name]
	rejected := true
	if !ok {
		label = labelCommandUnknown
		rsp.SetErrorf("ERR unknown command '%s'", name)
	} else if !c.checkArity(cmd) {
		rsp.SetErrorf("ERR wrong number of arguments for '%s' command", name)
	} else {
		rejected = false
		c.handler(cmd, rsp)
	}

	status := labelCommandSucceed
	if rejected {
		status = labelCommandRejected
		atomic.AddUint64(&s.rejectedCMDs, 1)
	} else if rsp.ErrorResult != nil {
		status = labelCommandFailed
	}
	commandCounterVec.WithLabelValues(label, status).Inc()
	observeCommand(start)

	if log.DebugEnabled() {
		log.Debugf("redis-[%s]: %s, cost %s", rs.addr, cmd.String(), time.Since(start))
	}

	rs.onResp(rsp)
	return ok && name == redis.Quit
}

// setError sets the error reply, errors which are not a redis reply
// are logged and replied with the ERR prefix.
func setError(cmd redis.Command, rsp *redis.Response, err error) {
	if storage.IsReplyError(err) {
		rsp.SetError(err)
		return
	}

	log.Errorf("redis: %s failed, errors:\n %+v", cmd.CmdString(), err)
	rsp.SetErrorf("ERR %s", err.Error())
}
