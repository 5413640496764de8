// Package storage persists captures as run directories holding
// metadata.json, a still image, an optional animation and per-frame timings.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/genviz/internal/export"
)

const (
	metadataFile  = "metadata.json"
	stillFile     = "still.png"
	animationFile = "animation.gif"
	timingsFile   = "frames.csv"
)

var ErrEmptyCapture = errors.New("capture has no frames")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

type CaptureMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	PixelRatio float64            `json:"pixel_ratio"`
	Frames     int                `json:"frames"`
	FPS        int                `json:"fps"`
	Preset     string             `json:"preset,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Capture is what a recording session hands to the store.
type Capture struct {
	Meta CaptureMetadata
	// Frames are the snapshots to encode. The last one becomes the still.
	Frames []*image.RGBA
	// Timings holds the per-frame step+render time in milliseconds.
	Timings []float64
}

// Save writes c under a fresh run directory and returns its id. An
// animation is written only when more than one frame was kept.
func (s *Store) Save(c *Capture) (string, error) {
	if len(c.Frames) == 0 {
		return "", ErrEmptyCapture
	}

	now := time.Now()
	meta := c.Meta
	meta.ID = fmt.Sprintf("%s_%d", meta.Scene, now.UnixNano())
	meta.Timestamp = now
	if meta.Frames == 0 {
		meta.Frames = len(c.Timings)
	}

	runDir := s.Dir(meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	still, err := os.Create(filepath.Join(runDir, stillFile))
	if err != nil {
		return "", err
	}
	defer still.Close()
	if err := export.WritePNG(still, c.Frames[len(c.Frames)-1]); err != nil {
		return "", fmt.Errorf("encode still: %w", err)
	}

	if len(c.Frames) > 1 {
		anim, err := os.Create(filepath.Join(runDir, animationFile))
		if err != nil {
			return "", err
		}
		defer anim.Close()
		delay := 2
		if meta.FPS > 0 {
			delay = max(2, 100/meta.FPS)
		}
		if err := export.WriteGIF(anim, c.Frames, delay); err != nil {
			return "", fmt.Errorf("encode animation: %w", err)
		}
	}

	if len(c.Timings) == 0 {
		return meta.ID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, timingsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"frame", "ms"}); err != nil {
		return "", err
	}
	for i, ms := range c.Timings {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(ms, 'f', 4, 64)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable capture, newest first.
func (s *Store) List() ([]CaptureMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []CaptureMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]CaptureMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*CaptureMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(id), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta CaptureMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTimings reads the per-frame timings of a capture back.
func (s *Store) LoadTimings(id string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.Dir(id), timingsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []float64{}, nil
	}

	out := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		ms, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		out = append(out, ms)
	}

	return out, nil
}
