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
	"sync"
	"sync/atomic"
	"time"

	"github.com/deepfabric/cellkv/pkg/api"
	"github.com/deepfabric/cellkv/pkg/storage"
	"github.com/fagongzi/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Version of the cell
const Version = "1.0.0"

// Server a cell server, serves redis protocol and the admin http api
type Server struct {
	cfg *Cfg

	driver      storage.Driver
	redisServer *RedisServer
	apiServer   *api.Server

	startAt  time.Time
	stopOnce sync.Once
	stopC    chan struct{}
}

// NewServer create a server with the cfg
func NewServer(cfg *Cfg) (*Server, error) {
	cfg.adjust()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:   cfg,
		stopC: make(chan struct{}),
	}

	driver, err := s.initDriver()
	if err != nil {
		return nil, err
	}
	s.driver = driver

	s.redisServer = NewRedisServer(cfg.Redis, driver)
	if cfg.API.Addr != "" {
		s.apiServer = api.NewServer(cfg.API.Addr, s)
	}

	return s, nil
}

// Start start the redis server and the api server, blocked until
// the server is stopped or one of them failed.
func (s *Server) Start() error {
	s.startAt = time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return s.ignoreStopped(s.redisServer.Start())
	})
	if s.apiServer != nil {
		g.Go(func() error {
			return s.ignoreStopped(s.apiServer.Start())
		})
	}
	g.Go(func() error {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stopC:
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		log.Errorf("stop: server stopped with errors:\n %+v", err)
	}
	return err
}

// errors returned after Stop are caused by closing the listeners
func (s *Server) ignoreStopped(err error) error {
	select {
	case <-s.stopC:
		return nil
	default:
		return err
	}
}

// Started returns a chan which is closed after the redis server is listening
func (s *Server) Started() chan struct{} {
	return s.redisServer.Started()
}

// Stop stop the server, it is safe to call Stop many times
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopC)

		s.stopRedis()
		s.stopAPI()

		if err := s.driver.Close(); err != nil {
			log.Errorf("stop: close storage failure, errors:\n %+v", err)
		} else {
			log.Info("stop: close storage succ")
		}
	})
}

func (s *Server) stopRedis() {
	err := s.redisServer.Stop()
	if err != nil {
		log.Errorf("stop: stop redis server failure, errors:\n %+v", err)
		return
	}

	log.Info("stop: stop redis server succ")
}

func (s *Server) stopAPI() {
	if nil == s.apiServer {
		return
	}

	err := s.apiServer.Stop()
	if err != nil {
		log.Errorf("stop: stop api server failure, errors:\n %+v", err)
		return
	}

	log.Info("stop: stop api server succ")
}

func (s *Server) initDriver() (storage.Driver, error) {
	switch s.cfg.Storage.Driver {
	case DriverBadger:
		log.Infof("bootstrap: use badger storage, path=<%s>, in-memory=<%t>",
			s.cfg.Storage.Badger.DataPath,
			s.cfg.Storage.Badger.InMemory)
		driver, err := storage.NewBadgerDriver(s.cfg.Storage.Badger)
		if err != nil {
			return nil, errors.Wrap(err, "init badger storage")
		}
		return driver, nil
	default:
		log.Infof("bootstrap: use memory storage")
		return storage.NewMemoryDriver(), nil
	}
}

// GetSystem returns the system info of the server
func (s *Server) GetSystem() (*api.System, error) {
	keys, err := s.driver.GetDataEngine().DBSize()
	if err != nil {
		return nil, err
	}

	return &api.System{
		Version:     Version,
		Driver:      s.cfg.Storage.Driver,
		StartAt:     s.startAt.Unix(),
		Uptime:      time.Since(s.startAt).Truncate(time.Second).String(),
		Clients:     s.redisServer.Clients(),
		MaxClients:  s.cfg.Redis.MaxClients,
		Keys:        keys,
		TotalCMDs:   atomic.LoadUint64(&s.redisServer.totalCMDs),
		RejectedCMD: atomic.LoadUint64(&s.redisServer.rejectedCMDs),
	}, nil
}

// FlushAll removes all keys
func (s *Server) FlushAll() error {
	log.Warningf("api: flush all keys")
	return s.driver.GetDataEngine().FlushAll()
}
