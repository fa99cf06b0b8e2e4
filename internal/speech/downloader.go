package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dndscribe/dndscribe/pkg/util"
)

// DefaultBaseURL is the upstream location for official whisper.cpp models.
const DefaultBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// progressStep is how many bytes must arrive between progress log lines.
// The catalog models run from 1.5 GB (medium) to 3 GB (large), so a pull
// can take a while.
const progressStep int64 = 256 << 20

// DownloadResult describes where a catalog model's ggml file ended up.
type DownloadResult struct {
	Model   Model
	Path    string
	Existed bool
}

// Downloader mirrors catalog models into a local cache directory.
type Downloader struct {
	dest    string
	BaseURL string
	client  *http.Client
}

// NewDownloader builds a Downloader targeting the given cache directory.
func NewDownloader(dest string) *Downloader {
	return &Downloader{
		dest:    dest,
		BaseURL: DefaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Minute,
		},
	}
}

// EnsureModel guarantees the model's ggml file is present in the cache and
// returns its location. A partial download never lands under the final name.
func (d *Downloader) EnsureModel(ctx context.Context, mdl Model) (DownloadResult, error) {
	if err := os.MkdirAll(d.dest, 0o755); err != nil {
		return DownloadResult{}, err
	}

	path := filepath.Join(d.dest, mdl.GGMLName)
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		log.Debug().Str("model", mdl.Name).Str("path", path).Msg("model already cached")
		return DownloadResult{Model: mdl, Path: path, Existed: true}, nil
	}

	tmp := path + ".downloading"
	if err := d.fetch(ctx, mdl, tmp); err != nil {
		os.Remove(tmp)
		return DownloadResult{}, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return DownloadResult{}, err
	}

	return DownloadResult{Model: mdl, Path: path, Existed: false}, nil
}

func (d *Downloader) fetch(ctx context.Context, mdl Model, dest string) error {
	url := d.BaseURL + mdl.GGMLName
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch model %s: %w", mdl.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch model %s: %s", mdl.Name, resp.Status)
	}

	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	evt := log.Info().Str("model", mdl.Name).Str("url", url)
	if resp.ContentLength > 0 {
		evt = evt.Str("size", util.HumanSizeMB(resp.ContentLength))
	}
	evt.Msg("downloading model")

	progress := &downloadProgress{model: mdl.Name, total: resp.ContentLength}
	written, err := io.Copy(io.MultiWriter(file, progress), resp.Body)
	if err != nil {
		return fmt.Errorf("fetch model %s: %w", mdl.Name, err)
	}

	log.Info().Str("model", mdl.Name).Str("size", util.HumanSizeMB(written)).Msg("model downloaded")
	return nil
}

// downloadProgress logs a line per progressStep bytes received, so multi-GB
// pulls show movement instead of a silent half hour.
type downloadProgress struct {
	model  string
	total  int64
	done   int64
	logged int64
}

func (p *downloadProgress) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if p.done-p.logged >= progressStep {
		p.logged = p.done
		evt := log.Info().Str("model", p.model).Str("received", util.HumanSizeMB(p.done))
		if p.total > 0 {
			evt = evt.Str("of", util.HumanSizeMB(p.total))
		}
		evt.Msg("download progress")
	}
	return len(b), nil
}
