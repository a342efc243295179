package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "JourJ/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "JourJ"
	AppID             = "com.github.malotru.jourj"
	KeyringService    = "com.github.malotru.jourj"
	KeyringWebPassKey = "carddav_password"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "contacts.db"
	SettingsDirName   = "settings"
	OutboxDirName     = "outbox"
	EnvFileName       = ".env"
)

// Environment variable overrides (process env or a .env file).
const (
	EnvDataDir = "JOURJ_DATA_DIR"
	EnvDebug   = "JOURJ_DEBUG"
	EnvPort    = "JOURJ_PORT"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for sensitive files like logs and the notification outbox.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating secure data directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Surfaces
// -----------------------------------------------------------------------------

// Surface identifiers used for settings keys and CLI flags.
const (
	SurfaceDrawer        = "drawer"
	SurfaceNotifications = "notifications"
	SurfaceWidget        = "widget"
)

// -----------------------------------------------------------------------------
// Settings Keys & Defaults
// -----------------------------------------------------------------------------

const (
	// Per-surface selection/exclusion sets; keys are "<surface>_selected"
	// and "<surface>_excluded" built with FormatSurfaceKey.
	FormatSurfaceKey  = "%s_%s"
	KeySuffixSelected = "selected"
	KeySuffixExcluded = "excluded"

	// Global block list: labels excluded everywhere.
	KeyBlocked = "blocked"

	KeyNotifyHour  = "notify_hour"
	KeyNotifyMin   = "notify_minute"
	KeyLeadDays    = "lead_days"
	KeyWidgetCount = "widget_count"
	KeySeeded      = "filters_seeded"

	DefaultNotifyHour  = 9
	DefaultNotifyMin   = 0
	DefaultWidgetCount = 5
)

// DefaultLeadDays is the default set of days-before-birthday at which a
// notification fires: day-of and one week prior.
var DefaultLeadDays = []int{0, 7}

// -----------------------------------------------------------------------------
// Labels
// -----------------------------------------------------------------------------

const (
	LabelAllContacts = "All contacts"
	LabelStarred     = "Starred"
	LabelUnlabeled   = "Unlabeled"

	// SystemGroupPrefix is stripped from resolved group titles.
	SystemGroupPrefix = "System Group: "

	// FormatGroupMsgID builds the i18n message id used to resolve a
	// resource-backed system group title: "group_<package>_<system id>".
	FormatGroupMsgID = "group_%s_%s"
)

// -----------------------------------------------------------------------------
// Contact Source: data row kinds & limits
// -----------------------------------------------------------------------------

const (
	MimeGroupMembership = "vnd.jourj/group_membership"
	MimePhone           = "vnd.jourj/phone"
	MimeEmail           = "vnd.jourj/email"
	MimeWhatsApp        = "vnd.jourj/whatsapp.profile"
	MimeSignal          = "vnd.jourj/signal.profile"
	MimeTelegram        = "vnd.jourj/telegram.profile"

	// DataChunkSize bounds the number of contact ids per batched data query.
	DataChunkSize = 400

	// FormatPhotoFallback constructs a photo reference for contacts whose
	// source row carries none. Expects the contact id.
	FormatPhotoFallback = "photo://contact/%s"

	FallbackName = "Unknown"
)

// IMPP URI schemes mapped to messenger marker rows.
const (
	SchemeWhatsApp = "whatsapp"
	SchemeSignal   = "signal"
	SchemeTelegram = "telegram"
)

// -----------------------------------------------------------------------------
// Source Modes
// -----------------------------------------------------------------------------

const (
	SourceModeLocal = "local"
	SourceModeWeb   = "web"
)

// -----------------------------------------------------------------------------
// Date Formats & Birthday Math
// -----------------------------------------------------------------------------

const (
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// DefaultLeapYear is the fallback year for year-less dates like --02-29.
	DefaultLeapYear = 2000
)

// -----------------------------------------------------------------------------
// vCard Fields
// -----------------------------------------------------------------------------

const (
	VCardBDAY       = "BDAY"
	VCardFN         = "FN"
	VCardN          = "N"
	VCardUID        = "UID"
	VCardCategories = "CATEGORIES"
	VCardTel        = "TEL"
	VCardEmail      = "EMAIL"
	VCardIMPP       = "IMPP"
	VCardPhoto      = "PHOTO"
	VCardStarred    = "X-STARRED"
	VCardInvisible  = "X-INVISIBLE"

	// UID Generation (for cards without a UID property).
	UIDSalt         = "jourj-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
)

// -----------------------------------------------------------------------------
// iCalendar Feed
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//JourJ//Feed//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "jourj"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	FormatUID          = "%s-%d@%s"
	FormatTriggerDays  = "-P%dD"
	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object used when no events
	// survive filtering, so feed clients never see an invalid payload.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Notifications
// -----------------------------------------------------------------------------

const (
	NotifyChannelID   = "jourj-birthdays"
	NotifyChannelName = "Birthdays"
	NotifyChannelDesc = "Upcoming birthday reminders"
)

// -----------------------------------------------------------------------------
// Scheduler
// -----------------------------------------------------------------------------

const (
	// FormatCronDaily builds a standard 5-field cron spec from minute and hour.
	FormatCronDaily = "%d %d * * *"

	// SyncFlightKey collapses concurrent sync requests to one in-flight run.
	SyncFlightKey = "sync"

	// WatchThrottle coalesces bursts of settings changes before derived views
	// recompute.
	WatchThrottle = 100 * time.Millisecond
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
	DefaultPort         = "18080"

	MinPort = 1
	MaxPort = 65535
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// I18n
// -----------------------------------------------------------------------------

const (
	DefaultLanguage = "en"

	TKeyNotifTitle     = "notif_title"
	TKeyNotifBodyToday = "notif_body_today"
	TKeyNotifBodyAhead = "notif_body_ahead"
	TKeyEvtSummary     = "event_summary"
	TKeyEvtSummaryAge  = "event_summary_age"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty = "configuration error: local address book path is empty"
	ErrWebURLEmpty    = "configuration error: web address book URL is empty"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrModeUnsupport  = "configuration error: unsupported source mode"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrPermissionRead = "contact source not readable"
	ErrSnapshotFailed = "snapshot extraction failed"
	ErrPersistFailed  = "failed to persist contact snapshot"
	ErrSettingsRead   = "failed to read setting"
	ErrSettingsWrite  = "failed to write setting"
	ErrSchemaInit     = "failed to initialize storage schema"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrWriteResp      = "failed to write response body"
	ErrLogFile        = "failed to open log file"
	ErrDataDir        = "could not determine user data dir"
	ErrCreateDir      = "could not create app data dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrUnknownSurface = "unknown surface"
	ErrAlarmSchedule  = "exact alarm scheduling unavailable"
	ErrNotifyDispatch = "notification dispatch failed"
	ErrWidgetRefresh  = "widget refresh failed"
	ErrOutboxWrite    = "failed to write notification to outbox"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgSyncStarted     = "Synchronization started..."
	MsgSyncSkipped     = "Synchronization skipped: contact source unreadable"
	MsgSyncSuccess     = "Synchronization completed successfully"
	MsgSyncFailed      = "Synchronization failed"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping contact with invalid birthday"
	MsgSkippedGroup    = "Dropping unresolvable group"
	MsgDupBirthday     = "Ignoring duplicate birthday row"
	MsgSnapshotDone    = "Snapshot extraction successful"
	MsgSeeded          = "Seeded surface selections from first label universe"
	MsgNotifSent       = "Notification dispatched"
	MsgWidgetRefresh   = "Widget refresh requested"
	MsgCacheUpdated    = "Feed cache updated"
	MsgServerListen    = "HTTP feed server listening"
	MsgServerStop      = "Shutting down HTTP feed server..."
	MsgDailySchedule   = "Daily resync scheduled"
	MsgDailySkipped    = "Daily resync skipped by battery guard"
	MsgAlarmScheduled  = "Notification alarm scheduled"
	MsgAlarmFired      = "Notification alarm fired"
	MsgWorkerStop      = "Worker stopping due to context cancellation"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Ignoring locale file with empty language code"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgViewsRecomputed = "Derived views recomputed"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyID        = "id"
	LogKeyGroup     = "group"
	LogKeyLabel     = "label"
	LogKeySurface   = "surface"
	LogKeyTotal     = "total_rows"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeyNotified  = "notified"
	LogKeyRemaining = "remaining_days"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"
	LogKeyNext      = "next_fire"
	LogKeySpec      = "cron_spec"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompExtractor = "extractor"
	CompAddrBook  = "addrbook"
	CompFetcher   = "fetcher"
	CompSettings  = "settings"
	CompStorage   = "storage"
	CompSync      = "sync"
	CompNotify    = "notify"
	CompFeed      = "feed"
	CompView      = "view"
	CompScheduler = "scheduler"
	CompI18n      = "i18n"
)
