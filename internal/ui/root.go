package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/night-downloader/internal/config"
	"github.com/ytget/night-downloader/internal/download"
	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
	"github.com/ytget/night-downloader/internal/platform"
)

// MetadataFetcher resolves a URL into video metadata without blocking the
// caller. done runs on a worker goroutine.
type MetadataFetcher interface {
	FetchMetadataAsync(ctx context.Context, rawURL string, done func(*model.VideoMetadata, error))
}

// PlaylistLister lists the entries of a playlist URL.
type PlaylistLister interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Services are the workers the window drives.
type Services struct {
	Metadata  MetadataFetcher
	Downloads download.Downloader
	Playlists PlaylistLister // optional

	// OnSettingsChanged runs after the settings dialog stored new values.
	OnSettingsChanged func(config.Values)
}

// Session is the state of one window. It is only touched on the Fyne
// goroutine.
type Session struct {
	Metadata *model.VideoMetadata
	Playlist *model.Playlist
	Active   *download.Download
	Theme    config.ThemeName
	Fetching bool
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	settings     *config.Settings
	localization *Localization
	services     Services
	logger       *slog.Logger
	session      Session

	urlEntry       *widget.Entry
	fetchBtn       *widget.Button
	busyBar        *widget.ProgressBarInfinite
	playlistSelect *widget.Select
	infoLabel      *widget.Label
	mergeCheck     *widget.Check
	videoSelect    *widget.Select
	audioSelect    *widget.Select
	singleSelect   *widget.Select
	downloadBtn    *widget.Button
	openFolderBtn  *widget.Button
	progressBar    *widget.ProgressBar
	statusLabel    *widget.Label
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, services Services, logger *slog.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		settings:     settings,
		localization: localization,
		services:     services,
		logger:       logging.OrDefault(logger).With("component", "ui"),
		session:      Session{Theme: settings.GetTheme()},
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	if services.Downloads != nil {
		services.Downloads.SetUpdateCallback(ui.onTaskUpdate)
	}
	return ui
}

// Session returns a copy of the window state
func (ui *RootUI) Session() Session {
	return ui.session
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	t := ui.localization.GetText

	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(t(KeyEnterURL))
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onFetchClick()
	}

	ui.fetchBtn = widget.NewButton(t(KeyFetchInfo), ui.onFetchClick)

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.fetchBtn, ui.urlEntry)

	ui.busyBar = widget.NewProgressBarInfinite()
	ui.busyBar.Stop()
	ui.busyBar.Hide()

	ui.playlistSelect = widget.NewSelect(nil, ui.onPlaylistEntrySelected)
	ui.playlistSelect.PlaceHolder = t(KeyPlaylistEntry)
	ui.playlistSelect.Hide()

	ui.infoLabel = widget.NewLabel("")
	ui.infoLabel.Wrapping = fyne.TextWrapWord

	ui.videoSelect = widget.NewSelect(nil, nil)
	ui.videoSelect.PlaceHolder = t(KeyVideoFormat)
	ui.audioSelect = widget.NewSelect(nil, nil)
	ui.audioSelect.PlaceHolder = t(KeyAudioFormat)
	ui.singleSelect = widget.NewSelect(nil, nil)
	ui.singleSelect.PlaceHolder = t(KeySingleFormat)

	ui.mergeCheck = widget.NewCheck(t(KeyMergeTracks), ui.onMergeChanged)

	ui.downloadBtn = widget.NewButton(t(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()

	ui.openFolderBtn = widget.NewButton(IconFolder+" "+t(KeyOpenFolder), ui.onOpenFolder)

	ui.progressBar = widget.NewProgressBar()
	ui.statusLabel = widget.NewLabel(t(KeyReady))
	ui.statusLabel.Wrapping = fyne.TextWrapWord

	ui.mergeCheck.SetChecked(ui.settings.GetMergeMode())
	ui.updateFormatVisibility()

	content := container.NewVBox(
		topPanel,
		ui.busyBar,
		ui.playlistSelect,
		ui.infoLabel,
		ui.mergeCheck,
		ui.videoSelect,
		ui.audioSelect,
		ui.singleSelect,
		container.NewBorder(nil, nil, nil, ui.openFolderBtn, ui.downloadBtn),
		ui.progressBar,
		ui.statusLabel,
	)

	ui.window.SetContent(container.NewPadded(content))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	settingsItem := fyne.NewMenuItem(t(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	themeMenu := fyne.NewMenu(t(KeyTheme))
	for _, name := range ui.settings.GetThemeOptions() {
		themeName := name
		label := t(KeyThemeNight)
		if themeName == config.ThemeLight {
			label = t(KeyThemeLight)
		}
		item := fyne.NewMenuItem(label, func() {
			ui.settings.SetTheme(themeName)
			ui.applyTheme(themeName)
			ui.createMenu()
		})
		item.Checked = ui.session.Theme == themeName
		themeMenu.Items = append(themeMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(t(KeyFile), settingsItem),
		languageMenu,
		themeMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	t := ui.localization.GetText

	ui.window.SetTitle(t(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(t(KeyEnterURL))
	ui.fetchBtn.SetText(t(KeyFetchInfo))
	ui.downloadBtn.SetText(t(KeyDownload))
	ui.openFolderBtn.SetText(IconFolder + " " + t(KeyOpenFolder))
	ui.mergeCheck.Text = t(KeyMergeTracks)
	ui.mergeCheck.Refresh()
	ui.videoSelect.PlaceHolder = t(KeyVideoFormat)
	ui.audioSelect.PlaceHolder = t(KeyAudioFormat)
	ui.singleSelect.PlaceHolder = t(KeySingleFormat)
	ui.playlistSelect.PlaceHolder = t(KeyPlaylistEntry)
	ui.videoSelect.Refresh()
	ui.audioSelect.Refresh()
	ui.singleSelect.Refresh()
	ui.playlistSelect.Refresh()
}

// applyTheme switches the app theme
func (ui *RootUI) applyTheme(name config.ThemeName) {
	ui.session.Theme = name
	if ui.app != nil {
		ui.app.Settings().SetTheme(NewCompactTheme(name))
	}
}

// validateURL validates the entered URL. Empty input is allowed while typing.
func validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	return model.ValidateURL(strings.TrimSpace(input))
}

// cleanURL strips characters a paste may carry along
func cleanURL(raw string) string {
	cleaned := strings.ReplaceAll(raw, "\n", "")
	cleaned = strings.ReplaceAll(cleaned, "\r", "")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return strings.TrimSpace(cleaned)
}

// onFetchClick handles the fetch button click
func (ui *RootUI) onFetchClick() {
	t := ui.localization.GetText

	rawURL := cleanURL(ui.urlEntry.Text)
	if rawURL == "" {
		ui.setStatus(t(KeyPleaseEnterURL))
		return
	}
	if err := model.ValidateURL(rawURL); err != nil {
		ui.setStatus(t(KeyInvalidURL) + ": " + err.Error())
		return
	}
	if ui.session.Fetching {
		return
	}

	if ui.services.Playlists != nil && platform.IsPlaylistURL(rawURL) {
		ui.handlePlaylistURL(rawURL)
		return
	}
	ui.fetchMetadata(rawURL)
}

// fetchMetadata queries the extractor off the UI goroutine
func (ui *RootUI) fetchMetadata(rawURL string) {
	ui.logger.Info("fetching metadata", "url", rawURL)
	ui.setBusy(true, ui.localization.GetText(KeyFetching))

	ui.services.Metadata.FetchMetadataAsync(context.Background(), rawURL, func(meta *model.VideoMetadata, err error) {
		fyne.Do(func() {
			ui.onMetadata(meta, err)
		})
	})
}

// onMetadata shows a fetch result
func (ui *RootUI) onMetadata(meta *model.VideoMetadata, err error) {
	t := ui.localization.GetText
	ui.setBusy(false, "")

	if err != nil {
		ui.logger.Warn("metadata fetch failed", "error", err)
		ui.session.Metadata = nil
		ui.infoLabel.SetText("")
		ui.populateFormats(nil)
		ui.setStatus(t(KeyFetchFailed))
		dialog.ShowError(err, ui.window)
		return
	}

	ui.session.Metadata = meta
	ui.infoLabel.SetText(fmt.Sprintf("%s: %s\n%s: %s", t(KeyTitle), meta.Title, t(KeyDuration), meta.GetDurationString()))
	ui.populateFormats(meta)
	ui.setStatus(t(KeyReady))
}

// populateFormats fills the format pickers. Nil clears them.
func (ui *RootUI) populateFormats(meta *model.VideoMetadata) {
	var video, audio, all []model.FormatDescriptor
	if meta != nil {
		video, audio = meta.Partition()
		all = meta.Formats
	}

	setOptions(ui.videoSelect, formatLabels(video))
	setOptions(ui.audioSelect, formatLabels(audio))
	setOptions(ui.singleSelect, formatLabels(all))
	ui.updateDownloadEnabled()
}

func formatLabels(formats []model.FormatDescriptor) []string {
	labels := make([]string, 0, len(formats))
	for _, f := range formats {
		labels = append(labels, f.Label())
	}
	return labels
}

// setOptions replaces the options and preselects the first one
func setOptions(sel *widget.Select, options []string) {
	sel.Options = options
	if len(options) > 0 {
		sel.SetSelected(options[0])
	} else {
		sel.ClearSelected()
	}
	sel.Refresh()
}

// onMergeChanged switches between the two-track and single-format pickers
func (ui *RootUI) onMergeChanged(merged bool) {
	ui.settings.SetMergeMode(merged)
	ui.updateFormatVisibility()
}

func (ui *RootUI) updateFormatVisibility() {
	if ui.videoSelect == nil {
		return
	}
	if ui.mergeCheck.Checked {
		ui.videoSelect.Show()
		ui.audioSelect.Show()
		ui.singleSelect.Hide()
	} else {
		ui.videoSelect.Hide()
		ui.audioSelect.Hide()
		ui.singleSelect.Show()
	}
}

// selectorFromLabels builds a format selector from picker labels
func selectorFromLabels(merged bool, videoLabel, audioLabel, singleLabel string) (string, error) {
	if merged {
		return model.BuildSelector(model.SelectionMerged,
			model.FormatIDFromLabel(videoLabel), model.FormatIDFromLabel(audioLabel))
	}
	return model.BuildSelector(model.SelectionSingle, model.FormatIDFromLabel(singleLabel), "")
}

// buildRequest turns the current selection into a download request
func (ui *RootUI) buildRequest() (model.DownloadRequest, error) {
	if ui.session.Metadata == nil {
		return model.DownloadRequest{}, &model.SelectionError{Reason: "no video loaded"}
	}

	selector, err := selectorFromLabels(ui.mergeCheck.Checked,
		ui.videoSelect.Selected, ui.audioSelect.Selected, ui.singleSelect.Selected)
	if err != nil {
		return model.DownloadRequest{}, err
	}
	req, err := model.NewDownloadRequest(ui.session.Metadata.URL, selector)
	if err != nil {
		return model.DownloadRequest{}, err
	}
	for _, id := range req.Tracks() {
		if _, ok := ui.session.Metadata.FindFormat(id); !ok {
			return model.DownloadRequest{}, &model.SelectionError{Reason: fmt.Sprintf("format %s is not offered for this video", id)}
		}
	}
	return req, nil
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	t := ui.localization.GetText

	req, err := ui.buildRequest()
	if err != nil {
		ui.setStatus(err.Error())
		dialog.ShowError(err, ui.window)
		return
	}

	d, err := ui.services.Downloads.StartDownload(req)
	if err != nil {
		if errors.Is(err, download.ErrDownloadInProgress) {
			ui.setStatus(t(KeyDownloadInProgress))
			return
		}
		ui.setStatus(err.Error())
		dialog.ShowError(err, ui.window)
		return
	}

	d.SetTitle(ui.session.Metadata.Title)
	ui.session.Active = d
	ui.progressBar.SetValue(0)
	ui.updateDownloadEnabled()
	ui.setStatus(t(KeyDownloadStarted))

	go ui.watchDownload(d)
}

// watchDownload drains d's events and forwards them to the widgets. The
// status line while running comes from onTaskUpdate.
func (ui *RootUI) watchDownload(d *download.Download) {
	outcome := download.Dispatch(d.Events(), download.Handlers{
		OnProgress: func(ev model.ProgressEvent) {
			fyne.Do(func() {
				ui.progressBar.SetValue(ev.Fraction())
			})
		},
		OnSuccess: func(message string) {
			fyne.Do(func() {
				ui.finishDownload(d, message, false)
			})
		},
		OnError: func(reason string) {
			fyne.Do(func() {
				ui.finishDownload(d, reason, true)
			})
		},
	})
	ui.logger.Info("download finished", "task", d.ID, "success", outcome.Success, "summary", taskSummary(d.Task()))
}

// onTaskUpdate receives task snapshots from the download goroutine.
// Finished tasks are left to finishDownload, which shows the outcome.
func (ui *RootUI) onTaskUpdate(task *model.DownloadTask) {
	fyne.Do(func() {
		if ui.session.Active == nil || ui.session.Active.ID != task.ID || !task.Status.IsActive() {
			return
		}
		ui.setStatus(taskSummary(task))
	})
}

// taskSummary renders a task as "title · status", with progress and ETA
// while downloading and the elapsed time once finished.
func taskSummary(task *model.DownloadTask) string {
	parts := []string{task.GetDisplayTitle(), task.Status.String()}
	switch {
	case task.Status == model.TaskStatusDownloading:
		parts = append(parts, fmt.Sprintf("%.1f%%", task.Progress.Percent), "ETA "+task.GetETAString())
	case task.Status.IsFinished() && !task.FinishedAt.IsZero():
		parts = append(parts, task.FinishedAt.Sub(task.StartedAt).Round(time.Second).String())
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// finishDownload shows the outcome and re-enables the download button
func (ui *RootUI) finishDownload(d *download.Download, message string, failed bool) {
	if ui.session.Active == d {
		ui.session.Active = nil
	}
	ui.updateDownloadEnabled()
	ui.setStatus(message)

	if failed {
		dialog.ShowError(errors.New(message), ui.window)
		return
	}
	ui.progressBar.SetValue(1)
	dialog.ShowInformation(ui.localization.GetText(KeyAppTitle), message, ui.window)
}

func (ui *RootUI) updateDownloadEnabled() {
	if ui.session.Metadata != nil && ui.session.Active == nil && !ui.downloadActive() && len(ui.session.Metadata.Formats) > 0 {
		ui.downloadBtn.Enable()
	} else {
		ui.downloadBtn.Disable()
	}
}

// downloadActive reports whether the service still holds its single slot.
func (ui *RootUI) downloadActive() bool {
	if ui.services.Downloads == nil {
		return false
	}
	_, active := ui.services.Downloads.Active()
	return active
}

// handlePlaylistURL lists a playlist in the background
func (ui *RootUI) handlePlaylistURL(rawURL string) {
	ui.logger.Info("reading playlist", "url", rawURL)
	ui.setBusy(true, ui.localization.GetText(KeyParsingStarted))

	go func() {
		playlist, err := ui.services.Playlists.ParsePlaylist(context.Background(), rawURL)
		fyne.Do(func() {
			ui.onPlaylist(playlist, err)
		})
	}()
}

// onPlaylist fills the playlist entry picker
func (ui *RootUI) onPlaylist(playlist *model.Playlist, err error) {
	t := ui.localization.GetText
	ui.setBusy(false, "")

	if err == nil && (playlist == nil || !playlist.IsReady()) {
		err = errors.New(t(KeyPlaylistEmpty))
	}
	if err != nil {
		ui.logger.Warn("playlist listing failed", "error", err)
		ui.setStatus(t(KeyParsingFailed) + ": " + err.Error())
		return
	}

	ui.session.Playlist = playlist
	labels := make([]string, 0, len(playlist.Entries))
	for _, entry := range playlist.Entries {
		labels = append(labels, entry.Label())
	}

	ui.playlistSelect.Options = labels
	ui.playlistSelect.ClearSelected()
	ui.playlistSelect.Show()
	ui.playlistSelect.Refresh()
	ui.setStatus(fmt.Sprintf("%s: %s (%d)", t(KeyPlaylistParsed), playlist.Title, len(playlist.Entries)))
}

// onPlaylistEntrySelected fetches metadata for the chosen entry
func (ui *RootUI) onPlaylistEntrySelected(label string) {
	if label == "" || ui.session.Playlist == nil || ui.session.Fetching {
		return
	}
	entry, ok := ui.session.Playlist.FindEntryByLabel(label)
	if !ok {
		return
	}
	ui.urlEntry.SetText(entry.URL)
	ui.fetchMetadata(entry.URL)
}

// onOpenFolder reveals the download directory
func (ui *RootUI) onOpenFolder() {
	dir := ui.settings.GetDownloadDirectory()
	if err := platform.OpenDirectory(dir); err != nil {
		ui.logger.Warn("failed to open download directory", "dir", dir, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFolder), err), ui.window)
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, ui.onSettingsSaved).Show()
}

// onSettingsSaved applies stored settings to the running window and services
func (ui *RootUI) onSettingsSaved() {
	v := ui.settings.Values()

	if err := platform.CreateDirectoryIfNotExists(v.DownloadDir); err != nil {
		ui.logger.Warn("failed to create download directory", "dir", v.DownloadDir, "error", err)
	}
	if v.Theme != ui.session.Theme {
		ui.applyTheme(v.Theme)
	}
	ui.localization.SetLanguage(v.Language)
	ui.refreshUITexts()
	ui.createMenu()

	if ui.services.OnSettingsChanged != nil {
		ui.services.OnSettingsChanged(v)
	}
}

// setBusy toggles the busy indicator while a worker runs
func (ui *RootUI) setBusy(busy bool, message string) {
	ui.session.Fetching = busy
	if busy {
		ui.busyBar.Show()
		ui.busyBar.Start()
		ui.fetchBtn.Disable()
	} else {
		ui.busyBar.Stop()
		ui.busyBar.Hide()
		ui.fetchBtn.Enable()
	}
	if message != "" {
		ui.setStatus(message)
	}
}

func (ui *RootUI) setStatus(message string) {
	ui.statusLabel.SetText(message)
}
