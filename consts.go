package logging

const (
	// DefaultFilePath is where the harness writes its log unless configured otherwise.
	DefaultFilePath = "/var/log/locust.log"

	// ConnectionPoolLogger is the logger the HTTP client transport reports
	// connection-pool activity on. It is very chatty below WARNING.
	ConnectionPoolLogger = "httpclient.connectionpool"

	// RootLoggerName is the name the root logger reports in log lines.
	RootLoggerName = "root"

	// TimestampLayout is the layout of the timestamp at the start of each line.
	TimestampLayout = "2006-01-02 15:04:05"

	loggerFieldName = "logger"
	emptyString     = ""
)

// Rotation units accepted by Config.When.
const (
	WhenSecond   = "S"
	WhenMinute   = "M"
	WhenHour     = "H"
	WhenDay      = "D"
	WhenMidnight = "MIDNIGHT"
)

const (
	errMsgNilConfig     = "Logging config is nil."
	errMsgNilService    = "Logger service is nil."
	errMsgServiceClosed = "Logger service is closed."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgEmptyName     = "Logger name is empty."
	errMsgInvalidLevel  = "Log level is not recognised."
	errMsgInvalidWhen   = "Rotation unit is not recognised."
	errMsgBadEncoding   = "Only utf-8 log files are supported."
	errMsgLogDirMissing = "Log directory does not exist."
	errMsgLogFileOpen   = "Log file could not be opened."
	errMsgReadConfig    = "Logging config file could not be read."
	errMsgParseConfig   = "Logging config file could not be parsed."
)
