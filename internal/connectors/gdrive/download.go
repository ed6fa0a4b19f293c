// Package gdrive downloads Strong CSV exports that land in a Google Drive
// folder, so a sync can run without the phone export being copied over by
// hand. Auth is a service account shared onto the folder.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"os"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
	"github.com/openfit-labs/fitsync-cli/internal/logger"
)

// Env vars for service account credentials. The file form suits local
// runs; the inline JSON form suits CI secrets.
const (
	EnvServiceAccountFile = "GOOGLE_SERVICE_ACCOUNT_FILE"
	EnvServiceAccountJSON = "GOOGLE_SERVICE_ACCOUNT_JSON"
)

const driveReadonlyScope = "https://www.googleapis.com/auth/drive.readonly"

// Downloader pulls the newest CSV export from one Drive folder.
type Downloader struct {
	svc      *drive.Service
	folderID string
}

// NewDownloader builds a Drive client from service account credentials in
// the environment. extraOpts is for tests to point at a fake server.
func NewDownloader(ctx context.Context, folderID string, extraOpts ...option.ClientOption) (*Downloader, error) {
	if folderID == "" {
		return nil, fmt.Errorf("%w: drive folder ID is empty", domain.ErrInvalidInput)
	}

	opts, err := credentialOptions(extraOpts)
	if err != nil {
		return nil, err
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Downloader{svc: svc, folderID: folderID}, nil
}

func credentialOptions(extraOpts []option.ClientOption) ([]option.ClientOption, error) {
	// Test overrides replace credentials entirely.
	if len(extraOpts) > 0 {
		return extraOpts, nil
	}
	if path := os.Getenv(EnvServiceAccountFile); path != "" {
		return []option.ClientOption{
			option.WithCredentialsFile(path),
			option.WithScopes(driveReadonlyScope),
		}, nil
	}
	if raw := os.Getenv(EnvServiceAccountJSON); raw != "" {
		return []option.ClientOption{
			option.WithCredentialsJSON([]byte(raw)),
			option.WithScopes(driveReadonlyScope),
		}, nil
	}
	return nil, fmt.Errorf("%w: set %s or %s",
		domain.ErrAuthRequired, EnvServiceAccountFile, EnvServiceAccountJSON)
}

// LatestCSV downloads the most recently modified CSV in the folder to
// outputPath and returns the Drive file name. domain.ErrNotFound means the
// folder holds no CSV exports.
func (d *Downloader) LatestCSV(ctx context.Context, outputPath string) (string, error) {
	query := fmt.Sprintf("'%s' in parents and name contains '.csv' and trashed=false", d.folderID)
	list, err := d.svc.Files.List().
		Q(query).
		OrderBy("modifiedTime desc").
		PageSize(1).
		Fields("files(id, name, modifiedTime)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: list drive folder: %v", domain.ErrUpstream, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("%w: no CSV exports in folder %s", domain.ErrNotFound, d.folderID)
	}

	latest := list.Files[0]
	logger.Debug("Downloading %s (modified %s)", latest.Name, latest.ModifiedTime)

	resp, err := d.svc.Files.Get(latest.Id).Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("%w: download %s: %v", domain.ErrUpstream, latest.Name, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", domain.ErrUpstream, outputPath, err)
	}
	return latest.Name, nil
}
