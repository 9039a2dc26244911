package main

import (
	"os"
	"path/filepath"
	"strings"

	"intake/internal/usecase"

	"github.com/pkg/errors"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

var audioExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".m4a": {},
	".ogg": {},
}

// readCardImages loads every image file in a directory.
func readCardImages(dir string) ([]usecase.CardImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read card directory")
	}

	var cards []usecase.CardImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", entry.Name())
		}
		cards = append(cards, usecase.CardImage{Filename: entry.Name(), Data: data})
	}

	return cards, nil
}

// readRecordings loads every audio file in a directory. Durations are left
// unknown; the pipeline's noise threshold only applies when a duration is
// supplied.
func readRecordings(dir string) ([]usecase.Recording, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read recordings directory")
	}

	var recordings []usecase.Recording
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := audioExtensions[ext]; !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", entry.Name())
		}
		recordings = append(recordings, usecase.Recording{Filename: entry.Name(), Data: data})
	}

	return recordings, nil
}
