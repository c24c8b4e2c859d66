package config

import (
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/night-downloader/internal/platform"
)

// ThemeName selects the window colour scheme
type ThemeName string

const (
	ThemeNight ThemeName = "night"
	ThemeLight ThemeName = "light"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir      = "download_directory"
	KeyFilenameTemplate = "filename_template"
	KeyLanguage         = "app_language"
	KeyMergeMode        = "merge_mode"
	KeyLogEnabled       = "log_enabled"
	KeyLogFileName      = "log_file_name"
	KeyProgressInterval = "progress_interval_ms"
	KeyTheme            = "theme"
	KeyAutoInstallYTDLP = "auto_install_ytdlp"
)

// Default values
const (
	DefaultFilenameTemplate   = "%(title)s.%(ext)s"
	DefaultLanguage           = "system"
	DefaultMergeMode          = true
	DefaultLogEnabled         = true
	DefaultLogFileName        = "download_log.txt"
	DefaultProgressIntervalMS = 500
	DefaultTheme              = ThemeNight
	DefaultAutoInstallYTDLP   = true
	FallbackDownloadDir       = "/tmp/downloads"
)

// Progress interval bounds in milliseconds
const (
	MinProgressIntervalMS = 100
	MaxProgressIntervalMS = 5000
)

// Values is a plain snapshot of every setting.
type Values struct {
	DownloadDir      string
	FilenameTemplate string
	Language         string
	MergeMode        bool
	LogEnabled       bool
	LogFileName      string
	ProgressInterval time.Duration
	Theme            ThemeName
	AutoInstallYTDLP bool
}

// LogPath returns the event log location, or "" when logging is off.
func (v Values) LogPath() string {
	if !v.LogEnabled || v.LogFileName == "" {
		return ""
	}
	return filepath.Join(v.DownloadDir, v.LogFileName)
}

// Defaults returns the built-in settings for callers without a Fyne app.
func Defaults() Values {
	return Values{
		DownloadDir:      defaultDownloadDir(),
		FilenameTemplate: DefaultFilenameTemplate,
		Language:         DefaultLanguage,
		MergeMode:        DefaultMergeMode,
		LogEnabled:       DefaultLogEnabled,
		LogFileName:      DefaultLogFileName,
		ProgressInterval: DefaultProgressIntervalMS * time.Millisecond,
		Theme:            DefaultTheme,
		AutoInstallYTDLP: DefaultAutoInstallYTDLP,
	}
}

func defaultDownloadDir() string {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return FallbackDownloadDir
	}
	return dir
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// Values returns a snapshot of the current settings.
func (s *Settings) Values() Values {
	return Values{
		DownloadDir:      s.GetDownloadDirectory(),
		FilenameTemplate: s.GetFilenameTemplate(),
		Language:         s.GetLanguage(),
		MergeMode:        s.GetMergeMode(),
		LogEnabled:       s.GetLogEnabled(),
		LogFileName:      s.GetLogFileName(),
		ProgressInterval: s.GetProgressInterval(),
		Theme:            s.GetTheme(),
		AutoInstallYTDLP: s.GetAutoInstallYTDLP(),
	}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		dir = defaultDownloadDir()
		s.SetDownloadDirectory(dir)
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.app.Preferences().String(KeyFilenameTemplate)
	if template == "" {
		s.SetFilenameTemplate(DefaultFilenameTemplate)
		return DefaultFilenameTemplate
	}
	return template
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	if template == "" {
		template = DefaultFilenameTemplate
	}
	s.app.Preferences().SetString(KeyFilenameTemplate, template)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language. Unknown codes fall back to
// DefaultLanguage.
func (s *Settings) SetLanguage(lang string) {
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		lang = DefaultLanguage
	}
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetMergeMode reports whether separate video and audio tracks are merged
func (s *Settings) GetMergeMode() bool {
	return s.app.Preferences().BoolWithFallback(KeyMergeMode, DefaultMergeMode)
}

// SetMergeMode sets the merge mode
func (s *Settings) SetMergeMode(merge bool) {
	s.app.Preferences().SetBool(KeyMergeMode, merge)
}

// GetLogEnabled reports whether the per-download event log is written
func (s *Settings) GetLogEnabled() bool {
	return s.app.Preferences().BoolWithFallback(KeyLogEnabled, DefaultLogEnabled)
}

// SetLogEnabled enables or disables the event log
func (s *Settings) SetLogEnabled(enabled bool) {
	s.app.Preferences().SetBool(KeyLogEnabled, enabled)
}

// GetLogFileName returns the event log file name
func (s *Settings) GetLogFileName() string {
	name := s.app.Preferences().String(KeyLogFileName)
	if name == "" {
		return DefaultLogFileName
	}
	return name
}

// SetLogFileName sets the event log file name. Only the base name is kept.
func (s *Settings) SetLogFileName(name string) {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultLogFileName
	}
	s.app.Preferences().SetString(KeyLogFileName, name)
}

// LogPath returns the event log location, or "" when logging is off.
func (s *Settings) LogPath() string {
	return s.Values().LogPath()
}

// GetProgressInterval returns how often yt-dlp reports progress
func (s *Settings) GetProgressInterval() time.Duration {
	ms := s.app.Preferences().IntWithFallback(KeyProgressInterval, DefaultProgressIntervalMS)
	return time.Duration(clampInterval(ms)) * time.Millisecond
}

// SetProgressInterval sets the progress interval, clamped to
// [MinProgressIntervalMS, MaxProgressIntervalMS]
func (s *Settings) SetProgressInterval(ms int) {
	s.app.Preferences().SetInt(KeyProgressInterval, clampInterval(ms))
}

func clampInterval(ms int) int {
	if ms < MinProgressIntervalMS {
		return MinProgressIntervalMS
	}
	if ms > MaxProgressIntervalMS {
		return MaxProgressIntervalMS
	}
	return ms
}

// GetTheme returns the configured theme
func (s *Settings) GetTheme() ThemeName {
	switch name := ThemeName(s.app.Preferences().String(KeyTheme)); name {
	case ThemeNight, ThemeLight:
		return name
	default:
		return DefaultTheme
	}
}

// SetTheme sets the theme. Unknown names fall back to DefaultTheme.
func (s *Settings) SetTheme(name ThemeName) {
	if name != ThemeNight && name != ThemeLight {
		name = DefaultTheme
	}
	s.app.Preferences().SetString(KeyTheme, string(name))
}

// GetThemeOptions returns available themes
func (s *Settings) GetThemeOptions() []ThemeName {
	return []ThemeName{ThemeNight, ThemeLight}
}

// GetAutoInstallYTDLP reports whether a missing yt-dlp binary is installed at startup
func (s *Settings) GetAutoInstallYTDLP() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoInstallYTDLP, DefaultAutoInstallYTDLP)
}

// SetAutoInstallYTDLP sets whether yt-dlp is installed at startup
func (s *Settings) SetAutoInstallYTDLP(auto bool) {
	s.app.Preferences().SetBool(KeyAutoInstallYTDLP, auto)
}
