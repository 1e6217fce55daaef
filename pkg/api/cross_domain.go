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

package api

import (
	"net/http"
	"strings"
)

const (
	headerAccess        = "Access-Control-Allow-Origin"
	headerAccessMethods = "Access-Control-Allow-Methods"
	headerAccessHeaders = "Access-Control-Allow-Headers"
	headerAccessValue   = "*"
)

// cross is a negroni middleware allows the admin ui of the cell served from
// other origins, preflight requests are answered here.
type cross struct {
	methods string
	headers string
}

func newCross() *cross {
	return &cross{
		methods: "OPTIONS, GET, POST, PUT",
		headers: "Content-Type",
	}
}

func (c *cross) ServeHTTP(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	header := w.Header()
	header.Set(headerAccess, headerAccessValue)
	header.Set(headerAccessMethods, c.methods)
	header.Set(headerAccessHeaders, c.headers)

	if strings.EqualFold(r.Method, http.MethodOptions) {
		w.WriteHeader(http.StatusOK)
		return
	}

	next(w, r)
}
