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

package command

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/layers"
	"jinr.ru/greenlab/go-inp/pkg/replay"
	"jinr.ru/greenlab/go-inp/pkg/srv"
)

// ErrApi returned when the API server answers with an error status
type ErrApi struct {
	Status  int
	Message string
}

func (e ErrApi) Error() string {
	return fmt.Sprintf("API error %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.ApiAddr()),
	}
}

func (c *ApiClient) portsUrl(machine string) string {
	return fmt.Sprintf("%s/machines/%s/ports", c.ApiPrefix, url.PathEscape(machine))
}

func (c *ApiClient) decodeUrl(ports []int, skip int, raw bool) string {
	query := url.Values{}
	if len(ports) > 0 {
		items := make([]string, len(ports))
		for i, port := range ports {
			items[i] = strconv.Itoa(port)
		}
		query.Set("ports", strings.Join(items, ","))
	}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("raw", strconv.FormatBool(raw))
	return fmt.Sprintf("%s/decode?%s", c.ApiPrefix, query.Encode())
}

// check turns error responses into ErrApi
func check(r *req.Resp) error {
	status := r.Response().StatusCode
	if status == http.StatusOK {
		return nil
	}
	apiErr := ErrApi{Status: status, Message: r.Response().Status}
	errResp := &srv.ErrorResp{}
	if err := r.ToJSON(errResp); err == nil && errResp.Message != "" {
		apiErr.Message = errResp.Message
	}
	return apiErr
}

var octetStream = req.Header{"Content-Type": "application/octet-stream"}

// Machines sends request to list machines of the server reference data
func (c *ApiClient) Machines() ([]string, error) {
	r, err := req.Get(fmt.Sprintf("%s/machines", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err = check(r); err != nil {
		return nil, err
	}
	var machines []string
	if err = r.ToJSON(&machines); err != nil {
		return nil, err
	}
	return machines, nil
}

// Ports sends request to describe the ports of a machine
func (c *ApiClient) Ports(machine string) (replay.PortList, error) {
	r, err := req.Get(c.portsUrl(machine))
	if err != nil {
		return nil, err
	}
	if err = check(r); err != nil {
		return nil, err
	}
	var ports replay.PortList
	if err = r.ToJSON(&ports); err != nil {
		return nil, err
	}
	return ports, nil
}

// Header uploads an INP file and returns its validated header
func (c *ApiClient) Header(in io.Reader) (*layers.Header, error) {
	r, err := req.Post(fmt.Sprintf("%s/header", c.ApiPrefix), octetStream, in)
	if err != nil {
		return nil, err
	}
	if err = check(r); err != nil {
		return nil, err
	}
	header := &layers.Header{}
	if err = r.ToJSON(header); err != nil {
		return nil, err
	}
	return header, nil
}

// Decode uploads an INP file and returns the decoded replay
func (c *ApiClient) Decode(in io.Reader, ports []int, skip int, raw bool) (*replay.Result, error) {
	r, err := req.Post(c.decodeUrl(ports, skip, raw), octetStream, in)
	if err != nil {
		return nil, err
	}
	if err = check(r); err != nil {
		return nil, err
	}
	result := &replay.Result{}
	if err = r.ToJSON(result); err != nil {
		return nil, err
	}
	return result, nil
}
