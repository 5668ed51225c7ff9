//go:build unix

package logger

import "log/syslog"

func dialSyslog() (PriorityWriter, error) {
	return syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, Tag)
}
