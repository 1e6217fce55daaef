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
	"time"
)

// GetIntValue returns the default value if value is 0
func GetIntValue(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}

	return value
}

// GetStringValue returns the default value if value is empty
func GetStringValue(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}

	return value
}

// GetDurationValue returns the default value if value is 0
func GetDurationValue(value, defaultValue time.Duration) time.Duration {
	if value == 0 {
		return defaultValue
	}

	return value
}
