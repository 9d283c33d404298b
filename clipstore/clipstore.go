// Package clipstore persists uploaded sound clips on HDFS. It backs the
// optional /clips endpoints; posts reference uploaded clips by URL.
package clipstore

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/colinmarc/hdfs/v2"
)

const baseDir = "/soundbyte/clips"

type Store struct {
	client *hdfs.Client
}

func New(namenodeAddr string) (*Store, error) {
	client, err := hdfs.New(namenodeAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to HDFS namenode: %w", err)
	}

	if err := client.MkdirAll(baseDir, 0755); err != nil && !os.IsExist(err) {
		client.Close()
		return nil, fmt.Errorf("failed to create clip directory: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func clipPath(clipID string) string {
	return path.Join(baseDir, clipID+".mp3")
}

// Put writes the clip, replacing any previous content for the same id.
func (s *Store) Put(clipID string, r io.Reader) (int64, error) {
	p := clipPath(clipID)

	if _, err := s.client.Stat(p); err == nil {
		if err := s.client.Remove(p); err != nil {
			return 0, fmt.Errorf("failed to replace existing clip: %w", err)
		}
	}

	w, err := s.client.Create(p)
	if err != nil {
		return 0, fmt.Errorf("failed to create clip file: %w", err)
	}

	n, err := io.Copy(w, r)
	if err != nil {
		w.Close()
		return 0, fmt.Errorf("failed to write clip: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize clip: %w", err)
	}
	return n, nil
}

// Get opens the clip for streaming; the caller closes the reader.
func (s *Store) Get(clipID string) (io.ReadCloser, int64, error) {
	p := clipPath(clipID)

	info, err := s.client.Stat(p)
	if err != nil {
		return nil, 0, err
	}

	f, err := s.client.Open(p)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open clip: %w", err)
	}
	return f, info.Size(), nil
}

func (s *Store) Exists(clipID string) bool {
	_, err := s.client.Stat(clipPath(clipID))
	return err == nil
}
