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
	"context"
	"os"
	"os/signal"
	"syscall"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
	"jinr.ru/greenlab/go-inp/pkg/srv"
)

// StartApiServer serves the decode API until SIGINT or SIGTERM
func StartApiServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := cfg.RefSourcePath()
	log.Info("Loading reference data: %s", path)
	src, err := refdb.OpenSource(path)
	if err != nil {
		return err
	}
	defer src.Close()

	s, err := srv.NewApiServer(ctx, cfg, src, log.Default())
	if err != nil {
		return err
	}
	return s.Run()
}
