// Copyright 2026 GreenMatch Labs
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

package greenmatch

import "time"

// clockHeightSource derives heights from wall-clock minutes, so the
// default proposal duration of 1440 heights covers one day. Heights
// only ever move forward and the engine never writes them.
type clockHeightSource struct{}

func (clockHeightSource) Height() (uint64, error) {
	return uint64(time.Now().Unix() / 60), nil
}
