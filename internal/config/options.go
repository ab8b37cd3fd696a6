package config

const (
	defalutLogFile           = "book-manager.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/book-manager"
	defaultDSN               = "book-manager.db"
	defaultMirrorDir         = "mirror"
	defaultPageSize          = 10
	defaultSearchLimit       = 15
	defaultPreviewLength     = 200
	defaultMaxUploadSize     = 10
	defaultLanguage          = "Русский"
	defaultShutdownTimeout   = 10
	defaultBookCacheSize     = 1024
	defaultMetricsCollector  = false
	defaultSearchRateLimit   = 5
	defaultSearchRateBurst   = 10
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFilemaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database
	DSN string `mapstructure:"dsn_uri"`
	// port is the port to listen on
	Port int `mapstructure:"port"`
	// host is the host to listen on
	Host string `mapstructure:"host"`
	// data is the directory to store data
	Data string `mapstructure:"data"`
	// MirrorDir holds the JSON snapshot and the XML exports.
	// A relative path is resolved against Data.
	MirrorDir string `mapstructure:"mirror_dir"`
	// PageSize is the number of books on one list page
	PageSize int `mapstructure:"page_size"`
	// SearchLimit caps the number of interactive search hits
	SearchLimit int `mapstructure:"search_limit"`
	// PreviewLength is the number of characters shown for each mirror file
	PreviewLength int `mapstructure:"preview_length"`
	// MaxUploadSize is the maximum size of the upload, in MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// DefaultLanguage is used for imported books without a language
	DefaultLanguage string `mapstructure:"default_language"`
	// ShutdownTimeout is the graceful shutdown timeout, in seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
	// BookCacheSize is the number of books kept in memory by id
	BookCacheSize int `mapstructure:"book_cache_size"`
	// MetricsCollector enables the /metrics endpoint
	MetricsCollector bool `mapstructure:"metrics_collector"`
	// SearchRateLimit is the number of interactive searches per second allowed
	// for one client, 0 disables the limit
	SearchRateLimit float64 `mapstructure:"search_rate_limit"`
	SearchRateBurst int     `mapstructure:"search_rate_burst"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defalutLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		DSN:               defaultDSN,
		Port:              defaultPort,
		Host:              defaultHost,
		Data:              defaultData,
		MirrorDir:         defaultMirrorDir,
		PageSize:          defaultPageSize,
		SearchLimit:       defaultSearchLimit,
		PreviewLength:     defaultPreviewLength,
		MaxUploadSize:     defaultMaxUploadSize,
		DefaultLanguage:   defaultLanguage,
		ShutdownTimeout:   defaultShutdownTimeout,
		BookCacheSize:     defaultBookCacheSize,
		MetricsCollector:  defaultMetricsCollector,
		SearchRateLimit:   defaultSearchRateLimit,
		SearchRateBurst:   defaultSearchRateBurst,
	}
	return Opts
}
