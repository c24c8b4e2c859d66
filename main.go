package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/night-downloader/internal/config"
	"github.com/ytget/night-downloader/internal/download"
	"github.com/ytget/night-downloader/internal/extract"
	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/platform"
	"github.com/ytget/night-downloader/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.night-downloader"
	AppName = "Night Downloader"

	installTimeout = 5 * time.Minute
)

func main() {
	logger := logging.Setup(false, false)
	logger.Info("starting", "app", AppName, "version", version)

	myApp := app.NewWithID(AppID)
	settings := config.NewSettings(myApp)
	values := settings.Values()

	myApp.Settings().SetTheme(ui.NewCompactTheme(values.Theme))

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	if err := platform.CreateDirectoryIfNotExists(values.DownloadDir); err != nil {
		logger.Warn("failed to ensure downloads dir", "dir", values.DownloadDir, "error", err)
	}

	ytdlp := platform.NewYTDLP(values.DownloadDir, logger)
	ytdlp.SetFilenameTemplate(values.FilenameTemplate)
	ytdlp.SetProgressInterval(values.ProgressInterval)

	if values.AutoInstallYTDLP {
		go ensureYTDLP(logger)
	}

	extractor := extract.NewClient(ytdlp, extract.WithLogger(logger))
	downloadSvc := download.NewService(ytdlp,
		download.WithLogPath(values.LogPath()),
		download.WithLogger(logger),
	)

	ui.NewRootUI(myWindow, myApp, settings, ui.Services{
		Metadata:  extractor,
		Downloads: downloadSvc,
		Playlists: platform.NewPlaylistParser(logger),
		OnSettingsChanged: func(v config.Values) {
			ytdlp.SetDownloadDirectory(v.DownloadDir)
			ytdlp.SetFilenameTemplate(v.FilenameTemplate)
			ytdlp.SetProgressInterval(v.ProgressInterval)
			downloadSvc.SetLogPath(v.LogPath())
		},
	}, logger)

	myWindow.ShowAndRun()
}

// ensureYTDLP resolves the yt-dlp binary in the background so the window
// opens immediately.
func ensureYTDLP(logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
	defer cancel()

	if err := platform.EnsureInstalled(ctx); err != nil {
		logger.Error("yt-dlp is unavailable", "error", err)
		return
	}
	logger.Debug("yt-dlp ready")
}
