package eslgo

import "strconv"

// LogLevel mirrors FreeSWITCH's switch_log.c severities carried on a
// log/data frame's Log-Level header.
type LogLevel int

const (
	LogLevelConsole LogLevel = iota
	LogLevelAlert
	LogLevelCrit
	LogLevelError
	LogLevelWarning
	LogLevelNotice
	LogLevelInfo
	LogLevelDebug
)

var logLevelNames = [...]string{
	"CONSOLE", "ALERT", "CRIT", "ERR", "WARNING", "NOTICE", "INFO", "DEBUG",
}

func (lv LogLevel) String() string {
	if lv < 0 || int(lv) >= len(logLevelNames) {
		return "DEBUG"
	}
	return logLevelNames[lv]
}

func parseLogLevel(s string) LogLevel {
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(LogLevelConsole) {
			return LogLevelConsole
		}
		if n > int(LogLevelDebug) {
			return LogLevelDebug
		}
		return LogLevel(n)
	}
	for lv, name := range logLevelNames {
		if name == s {
			return LogLevel(lv)
		}
	}
	return LogLevelDebug
}

// LogMessage is a parsed log/data frame, FreeSWITCH's own logging piped
// over the socket alongside events.
type LogMessage struct {
	Level   LogLevel
	File    string
	Func    string
	Line    int
	Content string
}

func parseLogMessage(msg *BasicMessage) *LogMessage {
	line, _ := strconv.Atoi(msg.Headers.Get("Log-Line"))
	return &LogMessage{
		Level:   parseLogLevel(msg.Headers.Get("Log-Level")),
		File:    msg.Headers.Get("Log-File"),
		Func:    msg.Headers.Get("Log-Func"),
		Line:    line,
		Content: string(msg.Body),
	}
}
