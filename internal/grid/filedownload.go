package grid

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrNoJSONL is returned when a downloaded archive holds no .jsonl member.
var ErrNoJSONL = errors.New("no .jsonl found in archive")

// FileInfo describes one downloadable artifact of a series.
type FileInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	FileName    string `json:"fileName"`
	FullURL     string `json:"fullURL"`
}

// FileDownload talks to the GRID File Download API.
type FileDownload struct {
	c *Client
}

// NewFileDownload wraps a client whose base URL is the File Download root.
func NewFileDownload(c *Client) *FileDownload {
	return &FileDownload{c: c}
}

// ListFiles returns the files available for a series.
func (fd *FileDownload) ListFiles(ctx context.Context, seriesID string) ([]FileInfo, error) {
	body, err := fd.c.Get(ctx, "file-download/list/"+seriesID)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Files []FileInfo `json:"files"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode file list: %w", err)
	}
	return resp.Files, nil
}

// Download streams fullURL to outPath, creating parent directories.
func (fd *FileDownload) Download(ctx context.Context, fullURL, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	resp, err := fd.c.send(ctx, "GET", fd.c.url(fullURL), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp := outPath + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("download %s: %w", fullURL, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, outPath)
}

// ExtractFirstJSONL copies the first .jsonl member of zipPath to outPath.
func ExtractFirstJSONL(zipPath, outPath string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".jsonl") {
			continue
		}
		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer src.Close()
		return writeFile(outPath, src)
	}
	return fmt.Errorf("%w: %s", ErrNoJSONL, filepath.Base(zipPath))
}

// DecompressZstd decompresses a .zst artifact at srcPath into outPath.
func DecompressZstd(srcPath, outPath string) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	return writeFile(outPath, dec)
}

// SaveJSON writes v as two-space indented JSON, creating parent directories.
func SaveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
