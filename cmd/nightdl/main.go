// Command nightdl is the headless front end: it prints the formats of a
// video or downloads one selection with progress on stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/ytget/night-downloader/internal/config"
	"github.com/ytget/night-downloader/internal/download"
	"github.com/ytget/night-downloader/internal/extract"
	"github.com/ytget/night-downloader/internal/logging"
	"github.com/ytget/night-downloader/internal/model"
	"github.com/ytget/night-downloader/internal/platform"
)

type options struct {
	url     string
	list    bool
	format  string
	video   string
	audio   string
	dir     string
	logFile string
	debug   bool
	install bool
}

func main() {
	defaults := config.Defaults()

	var opts options
	flag.StringVar(&opts.url, "url", "", "video or playlist URL")
	flag.BoolVar(&opts.list, "list", false, "print available formats (or playlist entries) and exit")
	flag.StringVar(&opts.format, "format", "", "single format id to download")
	flag.StringVar(&opts.video, "video", "", "video format id to merge")
	flag.StringVar(&opts.audio, "audio", "", "audio format id to merge")
	flag.StringVar(&opts.dir, "dir", defaults.DownloadDir, "download directory")
	flag.StringVar(&opts.logFile, "log", "", "download event log (default <dir>/"+config.DefaultLogFileName+", \"-\" disables)")
	flag.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flag.BoolVar(&opts.install, "install", defaults.AutoInstallYTDLP, "install yt-dlp when missing")
	flag.Parse()

	logger := logging.Setup(opts.debug, opts.debug)

	if err := run(context.Background(), opts, os.Stdout, os.Stderr, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer, logger *slog.Logger) error {
	if opts.url == "" {
		return errors.New("-url is required")
	}

	if opts.install {
		if err := platform.EnsureInstalled(ctx); err != nil {
			return err
		}
	}

	ytdlp := platform.NewYTDLP(opts.dir, logger)

	if opts.list && platform.IsPlaylistURL(opts.url) {
		return listPlaylist(ctx, opts.url, stdout, logger)
	}

	client := extract.NewClient(ytdlp, extract.WithLogger(logger))
	meta, err := client.FetchMetadata(ctx, opts.url)
	if err != nil {
		return err
	}

	if opts.list {
		printFormats(stdout, meta)
		return nil
	}

	selector, err := selectorFromFlags(opts)
	if err != nil {
		return err
	}
	req, err := model.NewDownloadRequest(meta.URL, selector)
	if err != nil {
		return err
	}

	if err := platform.CreateDirectoryIfNotExists(opts.dir); err != nil {
		return err
	}

	svc := download.NewService(ytdlp,
		download.WithLogPath(logPath(opts)),
		download.WithLogger(logger),
	)
	return runDownload(svc, req, meta.Title, stdout, stderr)
}

// runDownload starts req and reports progress on stderr until the outcome.
// The saved title goes to stdout.
func runDownload(svc download.Downloader, req model.DownloadRequest, title string, stdout, stderr io.Writer) error {
	d, err := svc.StartDownload(req)
	if err != nil {
		return err
	}
	d.SetTitle(title)
	fmt.Fprintf(stderr, "downloading %q as %s\n", d.Task().GetDisplayTitle(), req.FormatSelector)

	outcome := download.Dispatch(d.Events(), download.Handlers{
		OnProgress: func(ev model.ProgressEvent) {
			fmt.Fprintf(stderr, "\r%s", ev.String())
		},
		OnSuccess: func(message string) {
			fmt.Fprintf(stderr, "\n%s\n", message)
		},
	})
	if outcome.Failed() {
		fmt.Fprintln(stderr)
		if outcome.Err != nil {
			return outcome.Err
		}
		return errors.New(outcome.Message)
	}
	fmt.Fprintf(stdout, "saved %q\n", d.Task().GetDisplayTitle())
	return nil
}

func selectorFromFlags(opts options) (string, error) {
	if opts.format != "" {
		if opts.video != "" || opts.audio != "" {
			return "", &model.SelectionError{Reason: "-format cannot be combined with -video/-audio"}
		}
		return model.BuildSelector(model.SelectionSingle, opts.format, "")
	}
	return model.BuildSelector(model.SelectionMerged, opts.video, opts.audio)
}

func logPath(opts options) string {
	switch opts.logFile {
	case "-":
		return ""
	case "":
		return filepath.Join(opts.dir, config.DefaultLogFileName)
	default:
		return opts.logFile
	}
}

func printFormats(w io.Writer, meta *model.VideoMetadata) {
	fmt.Fprintf(w, "Title:    %s\nDuration: %s\n\n", meta.Title, meta.GetDurationString())

	video, audio := meta.Partition()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tID\tNOTE\tCODEC\tEXT")
	for _, f := range video {
		fmt.Fprintf(tw, "video\t%s\t%s\t%dp %s\t%s\n", f.ID, f.DisplayNote(), f.Height, f.DisplayVideoCodec(), f.Ext)
	}
	for _, f := range audio {
		fmt.Fprintf(tw, "audio\t%s\t%s\t%s\t%s\n", f.ID, f.DisplayNote(), f.DisplayAudioCodec(), f.Ext)
	}
	tw.Flush()
}

func listPlaylist(ctx context.Context, url string, w io.Writer, logger *slog.Logger) error {
	playlist, err := platform.NewPlaylistParser(logger).ParsePlaylist(ctx, url)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (%d videos)\n", playlist.Title, len(playlist.Entries))
	for i, entry := range playlist.Entries {
		fmt.Fprintf(w, "%3d. %s\n     %s\n", i+1, entry.Label(), entry.URL)
	}
	return nil
}
