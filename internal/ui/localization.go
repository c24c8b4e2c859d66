package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyFetchInfo          = "fetch_info"
	KeyFetching           = "fetching"
	KeyDownload           = "download"
	KeySettings           = "settings"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeyDownloadDirectory  = "download_directory"
	KeyFilenameTemplate   = "filename_template"
	KeyMergeTracks        = "merge_tracks"
	KeyVideoFormat        = "video_format"
	KeyAudioFormat        = "audio_format"
	KeySingleFormat       = "single_format"
	KeyPlaylistEntry      = "playlist_entry"
	KeyTitle              = "title"
	KeyDuration           = "duration"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeyEnterURL           = "enter_url"
	KeySettingsSaved      = "settings_saved"
	KeyDownloadStarted    = "download_started"
	KeyDownloadInProgress = "download_in_progress"
	KeyDownloadFailed     = "download_failed"
	KeyFetchFailed        = "fetch_failed"
	KeyInvalidURL         = "invalid_url"
	KeyPleaseEnterURL     = "please_enter_url"
	KeyOpenFolder         = "open_folder"
	KeyErrorOpeningFolder = "error_opening_folder"
	KeyTheme              = "theme"
	KeyThemeNight         = "theme_night"
	KeyThemeLight         = "theme_light"
	KeyWriteLog           = "write_log"
	KeyLogFileName        = "log_file_name"
	KeyProgressInterval   = "progress_interval"
	KeyAutoInstall        = "auto_install"
	KeyParsingStarted     = "parsing_started"
	KeyParsingFailed      = "parsing_failed"
	KeyPlaylistParsed     = "playlist_parsed"
	KeyPlaylistEmpty      = "playlist_empty"
	KeyReady              = "ready"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// System locale detection is not wired; English is used.
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "Night Downloader",
		KeyFetchInfo:          "Fetch Video Info",
		KeyFetching:           "Fetching video info...",
		KeyDownload:           "Download",
		KeySettings:           "Settings",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeyDownloadDirectory:  "Download Directory",
		KeyFilenameTemplate:   "Filename Template",
		KeyMergeTracks:        "Merge video and audio",
		KeyVideoFormat:        "Video format",
		KeyAudioFormat:        "Audio format",
		KeySingleFormat:       "Format",
		KeyPlaylistEntry:      "Playlist video",
		KeyTitle:              "Title",
		KeyDuration:           "Duration",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeyEnterURL:           "Enter video URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:      "Settings saved successfully!",
		KeyDownloadStarted:    "Download started",
		KeyDownloadInProgress: "A download is already in progress",
		KeyDownloadFailed:     "Download failed",
		KeyFetchFailed:        "Failed to fetch video info",
		KeyInvalidURL:         "Invalid URL",
		KeyPleaseEnterURL:     "Please enter a URL",
		KeyOpenFolder:         "Open Folder",
		KeyErrorOpeningFolder: "Error opening folder",
		KeyTheme:              "Theme",
		KeyThemeNight:         "Night",
		KeyThemeLight:         "Light",
		KeyWriteLog:           "Write download log",
		KeyLogFileName:        "Log File Name",
		KeyProgressInterval:   "Progress Interval (ms)",
		KeyAutoInstall:        "Install yt-dlp automatically",
		KeyParsingStarted:     "Reading playlist...",
		KeyParsingFailed:      "Failed to read playlist",
		KeyPlaylistParsed:     "Playlist loaded",
		KeyPlaylistEmpty:      "playlist has no videos",
		KeyReady:              "Ready",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "Ночной загрузчик",
		KeyFetchInfo:          "Получить информацию",
		KeyFetching:           "Получение информации о видео...",
		KeyDownload:           "Скачать",
		KeySettings:           "Настройки",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeyDownloadDirectory:  "Папка загрузки",
		KeyFilenameTemplate:   "Шаблон имени файла",
		KeyMergeTracks:        "Объединить видео и аудио",
		KeyVideoFormat:        "Формат видео",
		KeyAudioFormat:        "Формат аудио",
		KeySingleFormat:       "Формат",
		KeyPlaylistEntry:      "Видео из плейлиста",
		KeyTitle:              "Название",
		KeyDuration:           "Длительность",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeyEnterURL:           "Введите URL видео (https://youtube.com/watch?v=...)",
		KeySettingsSaved:      "Настройки успешно сохранены!",
		KeyDownloadStarted:    "Загрузка начата",
		KeyDownloadInProgress: "Загрузка уже выполняется",
		KeyDownloadFailed:     "Ошибка загрузки",
		KeyFetchFailed:        "Не удалось получить информацию о видео",
		KeyInvalidURL:         "Неверный URL",
		KeyPleaseEnterURL:     "Пожалуйста, введите URL",
		KeyOpenFolder:         "Открыть папку",
		KeyErrorOpeningFolder: "Ошибка открытия папки",
		KeyTheme:              "Тема",
		KeyThemeNight:         "Ночная",
		KeyThemeLight:         "Светлая",
		KeyWriteLog:           "Вести журнал загрузки",
		KeyLogFileName:        "Имя файла журнала",
		KeyProgressInterval:   "Интервал прогресса (мс)",
		KeyAutoInstall:        "Устанавливать yt-dlp автоматически",
		KeyParsingStarted:     "Чтение плейлиста...",
		KeyParsingFailed:      "Не удалось прочитать плейлист",
		KeyPlaylistParsed:     "Плейлист загружен",
		KeyPlaylistEmpty:      "в плейлисте нет видео",
		KeyReady:              "Готово",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:           "Night Downloader",
		KeyFetchInfo:          "Obter Informações",
		KeyFetching:           "Obtendo informações do vídeo...",
		KeyDownload:           "Baixar",
		KeySettings:           "Configurações",
		KeyFile:               "Arquivo",
		KeyLanguage:           "Idioma",
		KeyDownloadDirectory:  "Diretório de Download",
		KeyFilenameTemplate:   "Modelo de Nome de Arquivo",
		KeyMergeTracks:        "Juntar vídeo e áudio",
		KeyVideoFormat:        "Formato de vídeo",
		KeyAudioFormat:        "Formato de áudio",
		KeySingleFormat:       "Formato",
		KeyPlaylistEntry:      "Vídeo da playlist",
		KeyTitle:              "Título",
		KeyDuration:           "Duração",
		KeySave:               "Salvar",
		KeyCancel:             "Cancelar",
		KeyBrowse:             "Navegar",
		KeyEnterURL:           "Digite a URL do vídeo (https://youtube.com/watch?v=...)",
		KeySettingsSaved:      "Configurações salvas com sucesso!",
		KeyDownloadStarted:    "Download iniciado",
		KeyDownloadInProgress: "Um download já está em andamento",
		KeyDownloadFailed:     "Falha no download",
		KeyFetchFailed:        "Falha ao obter informações do vídeo",
		KeyInvalidURL:         "URL inválida",
		KeyPleaseEnterURL:     "Por favor, digite uma URL",
		KeyOpenFolder:         "Abrir Pasta",
		KeyErrorOpeningFolder: "Erro ao abrir pasta",
		KeyTheme:              "Tema",
		KeyThemeNight:         "Noturno",
		KeyThemeLight:         "Claro",
		KeyWriteLog:           "Gravar log de download",
		KeyLogFileName:        "Nome do Arquivo de Log",
		KeyProgressInterval:   "Intervalo de Progresso (ms)",
		KeyAutoInstall:        "Instalar yt-dlp automaticamente",
		KeyParsingStarted:     "Lendo playlist...",
		KeyParsingFailed:      "Falha ao ler playlist",
		KeyPlaylistParsed:     "Playlist carregada",
		KeyPlaylistEmpty:      "a playlist não tem vídeos",
		KeyReady:              "Pronto",
	}
}
