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

package log

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

type LogLevel int

const (
	LogPrefix     = "[go-inp] "
	ErrorPrefix   = "[error] "
	WarningPrefix = "[warn] "
	InfoPrefix    = "[info] "
	DebugPrefix   = "[debug] "
	HelpLevels    = "Must be one of: error, warning, info, debug."
)

const (
	ErrorLevel LogLevel = iota
	WarningLevel
	InfoLevel
	DebugLevel
)

var levelMapping = map[string]LogLevel{
	"error":   ErrorLevel,
	"warning": WarningLevel,
	"info":    InfoLevel,
	"debug":   DebugLevel,
}

// Logger is a leveled logger. A nil *Logger discards everything,
// so library code can accept one without checking.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	*log.Logger
}

var logger = &Logger{
	level:  InfoLevel,
	Logger: log.New(os.Stderr, LogPrefix, log.LstdFlags),
}

// ParseLevel converts a level name into LogLevel
func ParseLevel(strLevel string) (LogLevel, error) {
	level, ok := levelMapping[strLevel]
	if !ok {
		return InfoLevel, errors.New("Wrong log level. " + HelpLevels)
	}
	return level, nil
}

// New creates a standalone logger writing to out
func New(out io.Writer, strLevel string) (*Logger, error) {
	level, err := ParseLevel(strLevel)
	if err != nil {
		return nil, err
	}
	return &Logger{
		level:  level,
		Logger: log.New(out, LogPrefix, log.LstdFlags),
	}, nil
}

// Default returns the process wide logger used by commands and servers
func Default() *Logger {
	return logger
}

func (l *Logger) SetLevel(strLevel string) error {
	level, err := ParseLevel(strLevel)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
	return nil
}

func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Writer returns the underlying output, it is used for http access logs
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return l.Logger.Writer()
}

func (l *Logger) logf(level LogLevel, prefix, format string, v ...interface{}) {
	if l == nil || l.Level() < level {
		return
	}
	l.Println(fmt.Sprintf(prefix+format, v...))
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(ErrorLevel, ErrorPrefix, format, v...)
}

func (l *Logger) Warning(format string, v ...interface{}) {
	l.logf(WarningLevel, WarningPrefix, format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(InfoLevel, InfoPrefix, format, v...)
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(DebugLevel, DebugPrefix, format, v...)
}

func SetLevel(strLevel string) error {
	return logger.SetLevel(strLevel)
}

func Init(out io.Writer, strLevel string) {
	logger.SetOutput(out)
	if err := SetLevel(strLevel); err != nil {
		panic(err)
	}
}

func Error(format string, v ...interface{}) {
	logger.Error(format, v...)
}

func Warning(format string, v ...interface{}) {
	logger.Warning(format, v...)
}

func Info(format string, v ...interface{}) {
	logger.Info(format, v...)
}

func Debug(format string, v ...interface{}) {
	logger.Debug(format, v...)
}
