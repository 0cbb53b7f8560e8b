// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ovc

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/varsupport/encoding/maqmap"
	"github.com/pkg/errors"
)

// MaqSource is a ReadSource over a Maq .map stream.
type MaqSource struct {
	r     *maqmap.Reader
	nRead int
}

// NewMaqSource wraps r.
func NewMaqSource(r *maqmap.Reader) *MaqSource {
	return &MaqSource{r: r}
}

// RefNames returns the map header's reference names, indexed by sequence ID.
func (s *MaqSource) RefNames() []string {
	return s.r.Header().RefNames
}

// Next implements ReadSource.  A truncated final record is logged and treated
// as the end of the stream.
func (s *MaqSource) Next() (*Read, error) {
	rec, err := s.r.Read()
	if err != nil {
		if errors.Cause(err) == maqmap.ErrTruncatedReadRecord {
			log.Printf("ovc.MaqSource: %v after %d read(s); treating as end of stream", err, s.nRead)
			return nil, io.EOF
		}
		return nil, err
	}
	s.nRead++
	return NewReadFromMaq(rec), nil
}
