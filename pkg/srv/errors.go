/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"errors"
	"fmt"
	"net/http"

	"jinr.ru/greenlab/go-inp/pkg/inp"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
	"jinr.ru/greenlab/go-inp/pkg/replay"
)

// ErrBadQuery returned when a query parameter can not be parsed
type ErrBadQuery struct {
	Param string
	What  string
}

func (e ErrBadQuery) Error() string {
	return fmt.Sprintf("Bad query parameter %s: %s", e.Param, e.What)
}

// ErrorResp is the body of every error response
type ErrorResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// classify maps an error to its HTTP status and a metrics label
func classify(err error) (int, string) {
	var (
		invalidHeader      inp.ErrInvalidHeader
		unsupportedVersion inp.ErrUnsupportedVersion
		invalidPort        replay.ErrInvalidPortRequest
		unsupportedGame    refdb.ErrUnsupportedGame
		badQuery           ErrBadQuery
		tooLarge           *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "upload_too_large"
	case errors.As(err, &invalidHeader):
		return http.StatusBadRequest, "invalid_header"
	case errors.As(err, &unsupportedVersion):
		return http.StatusBadRequest, "unsupported_version"
	case errors.As(err, &invalidPort):
		return http.StatusBadRequest, "invalid_port_request"
	case errors.As(err, &badQuery):
		return http.StatusBadRequest, "bad_query"
	case errors.As(err, &unsupportedGame):
		return http.StatusNotFound, "unsupported_game"
	}
	return http.StatusInternalServerError, "internal"
}
