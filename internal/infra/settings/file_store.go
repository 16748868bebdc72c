package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	repo "storeadmin/internal/repository"

	"github.com/shopspring/decimal"
)

// ファイルの中身 {"shipping_cost": 500}
type fileContent struct {
	ShippingCost *decimal.Decimal `json:"shipping_cost"`
}

// FileStore keeps settings in a small JSON document on local disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) GetShippingCost(ctx context.Context) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil {
		return decimal.Zero, err
	}
	if c.ShippingCost == nil {
		return decimal.Zero, repo.ErrNotFound
	}
	return *c.ShippingCost, nil
}

func (s *FileStore) SetShippingCost(ctx context.Context, value decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		//壊れたファイルは上書きする
		c = fileContent{}
	}
	c.ShippingCost = &value

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	//途中で落ちても壊れないようにrenameで置き換える
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

func (s *FileStore) read() (fileContent, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileContent{}, repo.ErrNotFound
		}
		return fileContent{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var c fileContent
	if err := json.Unmarshal(b, &c); err != nil {
		return fileContent{}, fmt.Errorf("invalid settings file: %w", err)
	}
	return c, nil
}
