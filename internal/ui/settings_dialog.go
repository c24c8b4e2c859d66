package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/night-downloader/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	downloadDirEntry *widget.Entry
	filenameEntry    *widget.Entry
	intervalEntry    *widget.Entry
	logCheck         *widget.Check
	logNameEntry     *widget.Entry
	autoInstallCheck *widget.Check
	themeSelect      *widget.Select
	languageSelect   *widget.Select
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// values have been stored.
func NewSettingsDialog(settings *config.Settings, loc *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: loc,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")

	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.filenameEntry = widget.NewEntry()
	sd.filenameEntry.SetPlaceHolder(config.DefaultFilenameTemplate)

	sd.intervalEntry = widget.NewEntry()
	sd.intervalEntry.SetPlaceHolder(strconv.Itoa(config.MinProgressIntervalMS) + "-" + strconv.Itoa(config.MaxProgressIntervalMS))

	sd.logNameEntry = widget.NewEntry()
	sd.logNameEntry.SetPlaceHolder(config.DefaultLogFileName)
	sd.logCheck = widget.NewCheck(t(KeyWriteLog), func(enabled bool) {
		if enabled {
			sd.logNameEntry.Enable()
		} else {
			sd.logNameEntry.Disable()
		}
	})

	sd.autoInstallCheck = widget.NewCheck(t(KeyAutoInstall), nil)

	themeOptions := []string{}
	for _, name := range sd.settings.GetThemeOptions() {
		themeOptions = append(themeOptions, string(name))
	}
	sd.themeSelect = widget.NewSelect(themeOptions, nil)

	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)
	sd.languageSelect.PlaceHolder = "Select language"

	form := container.NewVBox(
		widget.NewLabel(t(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(t(KeyFilenameTemplate)+":"),
		sd.filenameEntry,

		widget.NewLabel(t(KeyProgressInterval)+":"),
		sd.intervalEntry,

		sd.logCheck,
		widget.NewLabel(t(KeyLogFileName)+":"),
		sd.logNameEntry,

		sd.autoInstallCheck,

		widget.NewSeparator(),

		widget.NewLabel(t(KeyTheme)+":"),
		sd.themeSelect,

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	v := sd.settings.Values()
	sd.downloadDirEntry.SetText(v.DownloadDir)
	sd.filenameEntry.SetText(v.FilenameTemplate)
	sd.intervalEntry.SetText(strconv.Itoa(int(v.ProgressInterval.Milliseconds())))
	sd.logNameEntry.SetText(v.LogFileName)
	sd.logCheck.SetChecked(v.LogEnabled)
	sd.autoInstallCheck.SetChecked(v.AutoInstallYTDLP)
	sd.themeSelect.SetSelected(string(v.Theme))
	sd.languageSelect.SetSelected(v.Language)
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply stores the widget values. Empty fields keep the stored value.
func (sd *SettingsDialog) apply() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if sd.filenameEntry.Text != "" {
		sd.settings.SetFilenameTemplate(sd.filenameEntry.Text)
	}

	if ms, err := strconv.Atoi(sd.intervalEntry.Text); err == nil {
		sd.settings.SetProgressInterval(ms)
	}

	sd.settings.SetLogEnabled(sd.logCheck.Checked)
	if sd.logNameEntry.Text != "" {
		sd.settings.SetLogFileName(sd.logNameEntry.Text)
	}

	sd.settings.SetAutoInstallYTDLP(sd.autoInstallCheck.Checked)

	if sd.themeSelect.Selected != "" {
		sd.settings.SetTheme(config.ThemeName(sd.themeSelect.Selected))
	}

	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}
}
