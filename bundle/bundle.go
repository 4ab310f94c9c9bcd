// Package bundle packages exported scene files into a single zip archive.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/achilleasa/luxport/log"
)

var logger = log.New("bundle")

// Write creates a zip archive at zipPath containing files. Entries are
// stored under their base name so the scene includes keep resolving
// relative to the main scene file.
func Write(zipPath string, files ...string) error {
	logger.Noticef(`writing bundle "%s"`, zipPath)
	start := time.Now()

	seen := make(map[string]string, len(files))
	for _, file := range files {
		name := filepath.Base(file)
		if prev, exists := seen[name]; exists {
			return fmt.Errorf("bundle: %q and %q map to the same entry %q", prev, file, name)
		}
		seen[name] = file
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("bundle: %s", err.Error())
	}

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err = addFile(zw, file); err != nil {
			zw.Close()
			out.Close()
			os.Remove(zipPath)
			return fmt.Errorf("bundle: could not add %q: %s", file, err.Error())
		}
	}

	if err = zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("bundle: %s", err.Error())
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("bundle: %s", err.Error())
	}

	logger.Noticef("wrote %d files in %d ms", len(files), time.Since(start).Nanoseconds()/1e6)
	return nil
}

func addFile(zw *zip.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(file)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
