package common

import "fmt"

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO         LogLevel = 2
	INFO               LogLevel = 16
	WARN               LogLevel = 32
	ERROR              LogLevel = 64
	FATAL              LogLevel = 128
)

// LogLevelSetting is the active log level mask; ShPrintf calls whose level
// bit is not set in this mask are no-ops. Defaults to the levels a deployed build wants to see.
var LogLevelSetting LogLevel = INFO | WARN | ERROR | FATAL

func ShPrintf(logLevel LogLevel, fmtStr string, a ...interface{}) {
	if logLevel&LogLevelSetting > 0 {
		fmt.Printf(fmtStr, a...)
	}
}
