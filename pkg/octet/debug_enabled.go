// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build octet_debug

package octet

import "github.com/christopherastone/octet/pkg/log"

// trace is the octet_debug-enabled counterpart of the original library's
// TRACE(...) macro. It logs at Debugf, so it also requires the logger's
// level to admit Debug for anything to actually print.
func trace(format string, args ...any) {
	log.Debugf(format, args...)
}
