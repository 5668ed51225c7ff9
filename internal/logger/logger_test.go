package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"dbohdan.com/mempig/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	priority string
	text     string
}

type fakeSyslog struct {
	messages []message
	fail     bool
}

func (f *fakeSyslog) record(priority, m string) error {
	f.messages = append(f.messages, message{priority, m})
	if f.fail {
		return errors.New("sink unavailable")
	}

	return nil
}

func (f *fakeSyslog) Err(m string) error     { return f.record("err", m) }
func (f *fakeSyslog) Warning(m string) error { return f.record("warning", m) }
func (f *fakeSyslog) Info(m string) error    { return f.record("info", m) }
func (f *fakeSyslog) Debug(m string) error   { return f.record("debug", m) }

func TestLogger_StreamByDefault(t *testing.T) {
	var buf bytes.Buffer

	log := logger.New(&buf)
	log.Info("successfully mmap'ed 1024 bytes", "size", "1.0 KiB")

	assert.False(t, log.UsingSyslog())
	assert.Contains(t, buf.String(), `msg="successfully mmap'ed 1024 bytes"`)
	assert.Contains(t, buf.String(), `size="1.0 KiB"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestLogger_UseSyslog(t *testing.T) {
	var buf bytes.Buffer

	sink := &fakeSyslog{}
	dials := 0
	log := logger.New(&buf, logger.WithDialer(func() (logger.PriorityWriter, error) {
		dials++
		return sink, nil
	}))

	log.Info("before")
	log.UseSyslog(true)
	log.Info("after", "step", "setsid")
	log.Error("failed")
	log.UseSyslog(true)

	assert.True(t, log.UsingSyslog())
	assert.Equal(t, 1, dials)
	assert.Contains(t, buf.String(), "msg=before")
	assert.NotContains(t, buf.String(), "after")

	require.Len(t, sink.messages, 2)
	assert.Equal(t, "info", sink.messages[0].priority)
	assert.Equal(t, "level=INFO msg=after step=setsid", sink.messages[0].text)
	assert.Equal(t, "err", sink.messages[1].priority)
	assert.Equal(t, "level=ERROR msg=failed", sink.messages[1].text)

	log.UseSyslog(false)
	log.Info("back")
	assert.Contains(t, buf.String(), "msg=back")
	assert.Len(t, sink.messages, 2)
}

func TestLogger_DialFailureStaysOnStream(t *testing.T) {
	var buf bytes.Buffer

	log := logger.New(&buf, logger.WithDialer(func() (logger.PriorityWriter, error) {
		return nil, errors.New("no /dev/log")
	}))

	log.UseSyslog(true)
	log.Info("still here")

	assert.False(t, log.UsingSyslog())
	assert.Contains(t, buf.String(), `msg="still here"`)
}

func TestLogger_SinkFailureIsIgnored(t *testing.T) {
	sink := &fakeSyslog{fail: true}
	log := logger.New(&bytes.Buffer{}, logger.WithDialer(func() (logger.PriorityWriter, error) {
		return sink, nil
	}))

	log.UseSyslog(true)

	assert.NotPanics(t, func() {
		log.Error("lost")
	})
	assert.Len(t, sink.messages, 1)
}
